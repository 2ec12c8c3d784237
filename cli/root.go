package cli

import (
	"github.com/spf13/cobra"

	"competitive-intel/config"
	"competitive-intel/utils"
)

// version is overridden at build time with -ldflags "-X competitive-intel/cli.version=...".
var version = "dev"

var (
	cfg    *config.Config
	logger *utils.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "intel",
	Short: "Competitive content intelligence",
	Long: `Analyses a competitor's published content against your own and
produces gap, sentiment, strategy and performance reports with
prioritised recommendations.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg = config.Load()
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logger = utils.NewLoggerWithLevel(level, cfg.LogJSON)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
