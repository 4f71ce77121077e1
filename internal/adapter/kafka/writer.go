package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/wildfire-explorer/internal/config"
	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces snapshots to a Kafka topic.
// It implements pipeline.Renderer.
type Writer struct {
	writer *kafkago.Writer
	viewID string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, viewID: cfg.ViewID, logger: logger}
}

// Render publishes one snapshot. Messages are keyed by view id so every
// snapshot of a view lands on the same partition, in publish order.
func (w *Writer) Render(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeToMessage(w.viewID, snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Debug("snapshot written to kafka", "topic", w.writer.Topic, "generation", snap.Generation)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(viewID string, snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(viewID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(snap.Status)},
			{Key: "generation", Value: []byte(strconv.FormatUint(snap.Generation, 10))},
			{Key: "computed_at", Value: []byte(snap.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
