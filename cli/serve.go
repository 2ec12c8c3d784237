package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"competitive-intel/server"
)

var (
	serveStore string
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Starts the HTTP API:
  POST /api/v1/analyses            run an analysis
  GET  /api/v1/analyses?subject_id= list stored analyses
  GET  /api/health                 liveness
  GET  /metrics                    Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveStore, "store", storeSQLite, "persist results to none, sqlite or postgres")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port; overrides SERVER_PORT")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if servePort > 0 {
		cfg.ServerPort = servePort
	}

	store, reader, err := openStore(serveStore, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	pub := openPublisher(cfg, logger)
	defer pub.Close()

	srv := server.NewServer(cfg, newPipeline(cfg, store, pub, logger), reader, logger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server on %s (store: %s)", srv.Addr(), serveStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-shutdown:
		logger.Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
