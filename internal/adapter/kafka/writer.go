package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/amedas-etl/internal/config"
	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
)

const (
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// RowMessage is one station's readings at one timestamp.
type RowMessage struct {
	RunID     string                          `json:"run_id"`
	Cadence   string                          `json:"cadence"`
	Timestamp time.Time                       `json:"timestamp"`
	BlockNo   string                          `json:"block_no"`
	Station   string                          `json:"station"`
	Values    map[domain.Element]domain.Value `json:"values"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes persisted observation rows to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer    messageWriter
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
	backoff   time.Duration
}

// NewWriter creates a Kafka producer for the configured observation topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newWriter(w, cfg.BatchSize, logger, metrics)
}

func newWriter(w messageWriter, batchSize int, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Writer{writer: w, logger: logger, metrics: metrics, batchSize: batchSize, backoff: initialBackoff}
}

// Load publishes one message per (timestamp, station) row of t in batches.
// A batch that keeps failing after the retry budget aborts the load.
func (w *Writer) Load(ctx context.Context, run domain.RunStatus, t *domain.Table) error {
	rows := Rows(run, t)
	for start := 0; start < len(rows); start += w.batchSize {
		end := min(start+w.batchSize, len(rows))
		msgs := make([]kafkago.Message, 0, end-start)
		for _, row := range rows[start:end] {
			msg, err := serializeToMessage(row)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writeBatch(ctx, msgs); err != nil {
			return err
		}
		w.metrics.MessagesProduced.Add(float64(len(msgs)))
	}
	w.logger.Info("rows published", "run_id", run.ID, "messages", len(rows))
	return nil
}

func (w *Writer) writeBatch(ctx context.Context, msgs []kafkago.Message) error {
	backoff := w.backoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		w.logger.Warn("publish failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("publish %d messages: %w", len(msgs), err)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// Rows flattens t into one message per timestamp and station, in row then
// column order.
func Rows(run domain.RunStatus, t *domain.Table) []RowMessage {
	stations := t.Stations()
	out := make([]RowMessage, 0, len(t.Index)*len(stations))
	for r, ts := range t.Index {
		byStation := make(map[domain.StationKey]map[domain.Element]domain.Value, len(stations))
		for c, k := range t.Columns {
			sk := domain.StationKey{BlockNo: k.BlockNo, Station: k.Station}
			if byStation[sk] == nil {
				byStation[sk] = make(map[domain.Element]domain.Value)
			}
			byStation[sk][k.Element] = t.Rows[r][c]
		}
		for _, sk := range stations {
			out = append(out, RowMessage{
				RunID:     run.ID,
				Cadence:   t.Cadence.String(),
				Timestamp: ts,
				BlockNo:   sk.BlockNo,
				Station:   sk.Station,
				Values:    byStation[sk],
			})
		}
	}
	return out
}

// serializeToMessage marshals a RowMessage into a Kafka message keyed by
// station so a station's rows stay on one partition.
func serializeToMessage(row RowMessage) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.BlockNo),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(row.RunID)},
			{Key: "cadence", Value: []byte(row.Cadence)},
			{Key: "observed_at", Value: []byte(row.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
