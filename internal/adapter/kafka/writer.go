package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/risk-map-client/internal/client"
	"github.com/couchcryptid/risk-map-client/internal/config"
	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/couchcryptid/risk-map-client/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Outcome labels carried in the event body and the "outcome" header.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// SubmissionEvent is the JSON body published for each settled submission.
type SubmissionEvent struct {
	SessionID   string                   `json:"session_id"`
	Request     domain.PredictionRequest `json:"request"`
	Outcome     string                   `json:"outcome"`
	TopCategory string                   `json:"top_category,omitempty"`
	Confidence  *float64                 `json:"confidence,omitempty"`
	Error       string                   `json:"error,omitempty"`
	DurationMS  int64                    `json:"duration_ms"`
	At          time.Time                `json:"at"`
}

// Writer publishes submission outcomes to a Kafka topic.
// It implements client.Observer. Messages are queued and delivered in the
// background; delivery results are reported through metrics and logs.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates an asynchronous Kafka producer for the configured outcome topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &Writer{metrics: metrics, logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion:   w.completed,
	}
	return w
}

// ObserveSubmission queues one outcome and returns without waiting for the
// broker. Publish errors never reach the page.
func (w *Writer) ObserveSubmission(ctx context.Context, outcome client.SubmissionOutcome) {
	if err := w.Publish(ctx, outcome); err != nil {
		w.metrics.OutcomesPublished.WithLabelValues("error").Inc()
		w.logger.Error("publish submission outcome", "session", outcome.SessionID, "error", err)
	}
}

// Publish serializes a single outcome and queues it for delivery.
func (w *Writer) Publish(ctx context.Context, outcome client.SubmissionOutcome) error {
	msg, err := serializeToMessage(outcome)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

// completed is called by the producer once a batch is delivered or given up on.
func (w *Writer) completed(messages []kafkago.Message, err error) {
	if err != nil {
		w.metrics.OutcomesPublished.WithLabelValues("error").Add(float64(len(messages)))
		w.logger.Error("deliver submission outcomes", "count", len(messages), "error", err)
		return
	}
	w.metrics.OutcomesPublished.WithLabelValues("ok").Add(float64(len(messages)))
}

// Close flushes queued outcomes and releases the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func newSubmissionEvent(outcome client.SubmissionOutcome) SubmissionEvent {
	ev := SubmissionEvent{
		SessionID:  outcome.SessionID,
		Request:    outcome.Request,
		Outcome:    OutcomeFailure,
		DurationMS: outcome.Duration.Milliseconds(),
		At:         outcome.At.UTC(),
	}
	if outcome.Err != nil {
		ev.Error = outcome.Err.Error()
		return ev
	}
	ev.Outcome = OutcomeSuccess
	if outcome.Response != nil && outcome.Response.TopPrediction != nil {
		top := outcome.Response.TopPrediction
		ev.TopCategory = top.Category
		conf := top.Confidence
		ev.Confidence = &conf
	}
	return ev
}

// serializeToMessage marshals a SubmissionOutcome into a Kafka message keyed
// by session so one page's submissions stay ordered on a partition.
func serializeToMessage(outcome client.SubmissionOutcome) (kafkago.Message, error) {
	ev := newSubmissionEvent(outcome)
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize submission outcome: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.SessionID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(ev.Outcome)},
			{Key: "submitted_at", Value: []byte(ev.At.Format(time.RFC3339))},
		},
	}, nil
}
