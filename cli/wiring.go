package cli

import (
	"fmt"

	"competitive-intel/config"
	"competitive-intel/events"
	"competitive-intel/services"
	"competitive-intel/storage"
	"competitive-intel/utils"
)

const (
	storeNone     = "none"
	storeSQLite   = "sqlite"
	storePostgres = "postgres"
)

// openStore returns the writer and reader for the chosen backend. Both are
// nil for storeNone.
func openStore(kind string, c *config.Config) (storage.ResultWriter, storage.ResultReader, error) {
	switch kind {
	case "", storeNone:
		return nil, nil, nil
	case storeSQLite:
		w, err := storage.NewSQLiteWriter(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	case storePostgres:
		w, err := storage.NewPostgresWriter(c.DSN())
		if err != nil {
			return nil, nil, err
		}
		return w, w, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want none, sqlite or postgres)", kind)
	}
}

// buildWriter fans out to the store and, when csvPath is set, a CSV export.
func buildWriter(store storage.ResultWriter, csvPath string) (storage.ResultWriter, error) {
	var writers []storage.ResultWriter
	if store != nil {
		writers = append(writers, store)
	}
	if csvPath != "" {
		w, err := storage.NewCSVWriter(csvPath)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if len(writers) == 0 {
		return nil, nil
	}
	return storage.NewMultiWriter(writers...), nil
}

// openPublisher connects to NATS when a URL is configured. A broker that
// cannot be reached degrades to no events rather than failing the command.
func openPublisher(c *config.Config, log *utils.Logger) events.Publisher {
	if c.NATSURL == "" {
		return events.NopPublisher{}
	}
	p, err := events.NewNATSPublisher(c.NATSURL, c.NATSSubject, log)
	if err != nil {
		log.Warn("[nats] %v; completion events disabled", err)
		return events.NopPublisher{}
	}
	return p
}

func newPipeline(c *config.Config, writer storage.ResultWriter, pub events.Publisher, log *utils.Logger) *services.Pipeline {
	engine := services.NewEngine(services.EngineOptionsFromConfig(c), log)
	return services.NewPipeline(engine, writer, pub, services.PipelineConfig{
		Timeout:    c.AnalysisTimeout,
		MaxRetries: c.MaxRetries,
	}, log)
}
