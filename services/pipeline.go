package services

import (
	"context"
	"fmt"
	"time"

	"competitive-intel/events"
	"competitive-intel/models"
	"competitive-intel/storage"
	"competitive-intel/utils"
)

// PipelineConfig bounds the engine run and the persistence retries.
type PipelineConfig struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	PublishWait time.Duration
}

// Pipeline normalises a request, runs the engine under a deadline, stores the
// outcome and announces it.
type Pipeline struct {
	normalizer *Normalizer
	engine     *Engine
	writer     storage.ResultWriter
	publisher  events.Publisher
	retry      *utils.RetryConfig
	cfg        PipelineConfig
	logger     *utils.Logger
}

// NewPipeline wires a pipeline. writer and publisher may be nil.
func NewPipeline(engine *Engine, writer storage.ResultWriter, publisher events.Publisher, cfg PipelineConfig, logger *utils.Logger) *Pipeline {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.PublishWait <= 0 {
		cfg.PublishWait = 2 * time.Second
	}
	return &Pipeline{
		normalizer: NewNormalizer(logger),
		engine:     engine,
		writer:     writer,
		publisher:  publisher,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryDelay,
			Logger:      logger,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the full request. A structural error or timeout fails the
// whole request; a failed event publish is only logged.
func (p *Pipeline) Run(ctx context.Context, raw models.RawAnalysisRequest) (*models.AnalysisResult, []models.Recommendation, error) {
	req := p.normalizer.NormalizeRequest(raw)

	analyzeCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		analyzeCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	result, recs, err := p.engine.Analyze(analyzeCtx, req)
	if err != nil {
		p.logger.Warn("[pipeline] %s analysis for subject %q rejected: %v", req.Mode, req.SubjectID, err)
		return nil, nil, err
	}

	if p.writer != nil {
		err := p.retry.Do(ctx, "persist-analysis", func() error {
			return p.writer.Save(ctx, result, recs)
		})
		if err != nil {
			persistFailuresTotal.Inc()
			return nil, nil, fmt.Errorf("persist analysis %s: %w", result.ID, err)
		}
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.cfg.PublishWait)
	defer cancel()
	if err := p.publisher.PublishCompleted(pubCtx, result, recs); err != nil {
		p.logger.Warn("[pipeline] could not publish completion of %s: %v", result.ID, err)
	}

	p.logger.Info("[pipeline] %s analysis %s complete: %d recommendations in %dms",
		result.Mode, result.ID, len(recs), result.ProcessingTimeMs)
	return result, recs, nil
}
