package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"competitive-intel/config"
	"competitive-intel/models"
	"competitive-intel/utils"
)

// confidenceScores are fixed per mode. They are a static heuristic, not a
// statistical confidence interval.
var confidenceScores = map[models.Mode]float64{
	models.ModeContentGap:    0.85,
	models.ModeSentiment:     0.82,
	models.ModeStrategy:      0.88,
	models.ModePerformance:   0.86,
	models.ModeComprehensive: 0.84,
}

// EngineOptions configures the analyzers.
type EngineOptions struct {
	TopicKeywords      []string
	LongFormThreshold  int
	ShortFormThreshold int
	// Parallel runs the four analyzers of comprehensive mode concurrently.
	Parallel bool
}

// DefaultEngineOptions returns the reference vocabulary and thresholds.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		TopicKeywords:      config.DefaultTopicKeywords,
		LongFormThreshold:  500,
		ShortFormThreshold: 280,
	}
}

// EngineOptionsFromConfig builds options from application config.
func EngineOptionsFromConfig(cfg *config.Config) EngineOptions {
	opts := DefaultEngineOptions()
	if len(cfg.TopicKeywords) > 0 {
		opts.TopicKeywords = cfg.TopicKeywords
	}
	if cfg.LongFormThreshold > 0 {
		opts.LongFormThreshold = cfg.LongFormThreshold
	}
	if cfg.ShortFormThreshold > 0 {
		opts.ShortFormThreshold = cfg.ShortFormThreshold
	}
	opts.Parallel = cfg.ParallelAnalyzers
	return opts
}

// Engine dispatches a request to the analyzers its mode needs. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	opts        EngineOptions
	logger      *utils.Logger
	sentiment   *SentimentAnalyzer
	strategy    *StrategyAnalyzer
	performance *PerformanceAnalyzer
	gap         *GapAnalyzer
	synthesizer *Synthesizer
	recommender *RecommendationGenerator
}

// NewEngine wires the analyzers together.
func NewEngine(opts EngineOptions, logger *utils.Logger) *Engine {
	extractor := NewExtractor(opts.TopicKeywords, opts.LongFormThreshold, opts.ShortFormThreshold)
	return &Engine{
		opts:        opts,
		logger:      logger,
		sentiment:   NewSentimentAnalyzer(),
		strategy:    NewStrategyAnalyzer(extractor),
		performance: NewPerformanceAnalyzer(),
		gap:         NewGapAnalyzer(extractor),
		synthesizer: NewSynthesizer(),
		recommender: NewRecommendationGenerator(),
	}
}

// Analyze runs the analysis selected by req.Mode and generates recommendations.
// Structural problems with the request abort before any analyzer runs; a done
// context aborts without a partial result.
func (e *Engine) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, []models.Recommendation, error) {
	start := time.Now()

	if err := validate(req); err != nil {
		analysesTotal.WithLabelValues(string(req.Mode), "rejected").Inc()
		return nil, nil, err
	}

	result := &models.AnalysisResult{
		ID:              uuid.NewString(),
		SubjectID:       req.SubjectID,
		CompetitorID:    req.CompetitorID,
		Mode:            req.Mode,
		ConfidenceScore: confidenceScores[req.Mode],
		CreatedAt:       start.UTC(),
	}

	competitor := req.CompetitorContentItems
	var err error
	switch req.Mode {
	case models.ModeContentGap:
		result.ContentGap = e.gap.Analyze(competitor, req.UserContentItems)
	case models.ModeSentiment:
		result.Sentiment = e.sentiment.Analyze(competitor)
	case models.ModeStrategy:
		result.Strategy = e.strategy.Analyze(competitor)
	case models.ModePerformance:
		result.Performance = e.performance.Analyze(competitor)
	case models.ModeComprehensive:
		err = e.comprehensive(ctx, req, result)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		analysesTotal.WithLabelValues(string(req.Mode), "aborted").Inc()
		return nil, nil, fmt.Errorf("%w: %w", ErrAnalysisAborted, err)
	}

	recs := e.recommender.Generate(result)

	elapsed := time.Since(start)
	result.ProcessingTimeMs = elapsed.Milliseconds()
	analysisDuration.WithLabelValues(string(req.Mode)).Observe(elapsed.Seconds())
	analysesTotal.WithLabelValues(string(req.Mode), "ok").Inc()

	e.logger.Debug("[engine] %s analysis of %d competitor items done in %v (%d recommendations)",
		req.Mode, len(competitor), elapsed, len(recs))
	return result, recs, nil
}

// comprehensive runs every analyzer then the synthesizer. The analyzers read
// the same immutable input and write disjoint fields of result.
func (e *Engine) comprehensive(ctx context.Context, req models.AnalysisRequest, result *models.AnalysisResult) error {
	competitor := req.CompetitorContentItems
	stages := []func(){
		func() { result.ContentGap = e.gap.Analyze(competitor, req.UserContentItems) },
		func() { result.Sentiment = e.sentiment.Analyze(competitor) },
		func() { result.Strategy = e.strategy.Analyze(competitor) },
		func() { result.Performance = e.performance.Analyze(competitor) },
	}

	if e.opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, stage := range stages {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				stage()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, stage := range stages {
			if err := ctx.Err(); err != nil {
				return err
			}
			stage()
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	result.Summary = e.synthesizer.Synthesize(result.ContentGap, result.Sentiment, result.Strategy, result.Performance)
	return nil
}

// validate enforces the structural rules of a request: a known mode, a present
// competitor corpus, and a user corpus for comparison modes.
func validate(req models.AnalysisRequest) error {
	switch req.Mode {
	case models.ModeContentGap, models.ModeSentiment, models.ModeStrategy,
		models.ModePerformance, models.ModeComprehensive:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, req.Mode)
	}

	if req.CompetitorContentItems == nil {
		return ErrInsufficientData
	}
	if req.Mode.RequiresUserCorpus() {
		if len(req.CompetitorContentItems) == 0 {
			return ErrInsufficientData
		}
		if req.UserContentItems == nil {
			return ErrMissingUserCorpus
		}
	}
	return nil
}
