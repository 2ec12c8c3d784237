package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"competitive-intel/models"
	"competitive-intel/services"
	"competitive-intel/source"
)

var (
	analyzeMode         string
	analyzeSubject      string
	analyzeCompetitorID string
	analyzeCompetitor   []string
	analyzeUser         []string
	analyzeRequest      string
	analyzeJSON         bool
	analyzeStore        string
	analyzeCSV          string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a competitor's content",
	Long: `Runs one analysis over content files (JSON array or JSON lines).
Modes: content_gap, sentiment, strategy, performance, comprehensive.
content_gap and comprehensive also need --user content.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeMode, "mode", "m", string(models.ModeComprehensive), "analysis mode")
	f.StringVar(&analyzeSubject, "subject", "", "id of the party requesting the analysis")
	f.StringVar(&analyzeCompetitorID, "competitor-id", "", "id of the competitor being analysed")
	f.StringSliceVarP(&analyzeCompetitor, "competitor", "c", nil, "competitor content file(s)")
	f.StringSliceVarP(&analyzeUser, "user", "u", nil, "user content file(s)")
	f.StringVarP(&analyzeRequest, "request", "r", "", "full request document; flags override its fields")
	f.BoolVar(&analyzeJSON, "json", false, "output result and recommendations as JSON")
	f.StringVar(&analyzeStore, "store", storeNone, "persist results to none, sqlite or postgres")
	f.StringVar(&analyzeCSV, "csv", "", "also export recommendations to this CSV file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := buildRequest(ctx, cmd)
	if err != nil {
		return err
	}

	store, _, err := openStore(analyzeStore, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	writer, err := buildWriter(store, analyzeCSV)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return fmt.Errorf("open csv export: %w", err)
	}
	if writer != nil {
		defer writer.Close()
	}

	pub := openPublisher(cfg, logger)
	defer pub.Close()

	result, recs, err := newPipeline(cfg, writer, pub, logger).Run(ctx, raw)
	if err != nil {
		return describeFailure(err)
	}

	if analyzeJSON {
		return outputAnalysisJSON(cmd, result, recs)
	}
	services.NewReporter(cmd.OutOrStdout()).Print(result, recs)
	return nil
}

// buildRequest merges the optional request document with the command line.
// A corpus flag that was not given leaves that corpus absent.
func buildRequest(ctx context.Context, cmd *cobra.Command) (models.RawAnalysisRequest, error) {
	var raw models.RawAnalysisRequest
	if analyzeRequest != "" {
		var err error
		if raw, err = source.LoadRequest(analyzeRequest); err != nil {
			return raw, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mode") || raw.Mode == "" {
		raw.Mode = analyzeMode
	}
	if flags.Changed("subject") {
		raw.SubjectID = analyzeSubject
	}
	if flags.Changed("competitor-id") {
		raw.CompetitorID = analyzeCompetitorID
	}

	// Each corpus gets its own source so the same file may feed both.
	if len(analyzeCompetitor) > 0 {
		items, err := source.NewFileSource(cfg.MaxConcurrency, cfg.MaxRetries, logger).Load(ctx, analyzeCompetitor)
		if err != nil {
			return raw, fmt.Errorf("load competitor content: %w", err)
		}
		raw.CompetitorContent = items
	}
	if len(analyzeUser) > 0 {
		items, err := source.NewFileSource(cfg.MaxConcurrency, cfg.MaxRetries, logger).Load(ctx, analyzeUser)
		if err != nil {
			return raw, fmt.Errorf("load user content: %w", err)
		}
		raw.UserContent = items
	}
	return raw, nil
}

func describeFailure(err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedMode):
		return fmt.Errorf("%w (choose one of %v)", err, models.Modes)
	case errors.Is(err, services.ErrMissingUserCorpus):
		return fmt.Errorf("%w: pass --user", err)
	case errors.Is(err, services.ErrInsufficientData):
		return fmt.Errorf("%w: pass --competitor", err)
	default:
		return err
	}
}

func outputAnalysisJSON(cmd *cobra.Command, result *models.AnalysisResult, recs []models.Recommendation) error {
	if recs == nil {
		recs = []models.Recommendation{}
	}
	data, err := json.MarshalIndent(struct {
		Result          *models.AnalysisResult  `json:"result"`
		Recommendations []models.Recommendation `json:"recommendations"`
	}{result, recs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
