package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"competitive-intel/models"
	"competitive-intel/utils"
)

// flushTimeout bounds the broker round-trip when the caller sets no deadline.
const flushTimeout = 2 * time.Second

// Publisher announces finished analyses to downstream consumers.
type Publisher interface {
	PublishCompleted(ctx context.Context, result *models.AnalysisResult, recs []models.Recommendation) error
	Close() error
}

// CompletedEvent is the payload published once a result has been stored.
type CompletedEvent struct {
	AnalysisID          string    `json:"analysis_id"`
	SubjectID           string    `json:"subject_id"`
	CompetitorID        string    `json:"competitor_id"`
	Mode                string    `json:"mode"`
	ConfidenceScore     float64   `json:"confidence_score"`
	ThreatLevel         string    `json:"threat_level,omitempty"`
	OpportunityScore    *int      `json:"opportunity_score,omitempty"`
	RecommendationTypes []string  `json:"recommendation_types"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewCompletedEvent summarises a result for publication.
func NewCompletedEvent(result *models.AnalysisResult, recs []models.Recommendation) CompletedEvent {
	ev := CompletedEvent{
		AnalysisID:          result.ID,
		SubjectID:           result.SubjectID,
		CompetitorID:        result.CompetitorID,
		Mode:                string(result.Mode),
		ConfidenceScore:     result.ConfidenceScore,
		RecommendationTypes: make([]string, 0, len(recs)),
		CreatedAt:           result.CreatedAt,
	}
	if result.Summary != nil {
		ev.ThreatLevel = result.Summary.ThreatLevel
		score := result.Summary.OpportunityScore
		ev.OpportunityScore = &score
	}
	for _, r := range recs {
		ev.RecommendationTypes = append(ev.RecommendationTypes, r.Type)
	}
	return ev
}

// Subject returns the NATS subject completion events go to.
func Subject(prefix string) string {
	return fmt.Sprintf("%s.completed", prefix)
}

// NATSPublisher publishes completion events on NATS.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url and publishes under "<prefix>.completed".
func NewNATSPublisher(url, prefix string, logger *utils.Logger) (*NATSPublisher, error) {
	options := []nats.Option{
		nats.Name("competitive-intel"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.Timeout(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("[nats] disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Debug("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc, subject: Subject(prefix)}, nil
}

// PublishCompleted publishes the event and flushes it within ctx's deadline.
func (p *NATSPublisher) PublishCompleted(ctx context.Context, result *models.AnalysisResult, recs []models.Recommendation) error {
	data, err := json.Marshal(NewCompletedEvent(result, recs))
	if err != nil {
		return fmt.Errorf("nats: encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats: publish: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats: flush: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCompleted(context.Context, *models.AnalysisResult, []models.Recommendation) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
