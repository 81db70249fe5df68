package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Event type discriminators carried in every message envelope.
const (
	TypeStateChanged    = "payment.state-changed"
	TypeExpressReturned = "payment.express-returned"
)

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Kafka publishes events to a single topic, keyed by payment id so all
// events for one payment land on the same partition in order.
type Kafka struct {
	writer *kafka.Writer
	logger *slog.Logger
}

var _ Publisher = (*Kafka)(nil)

// NewKafka creates a kafka-backed publisher.
func NewKafka(brokers []string, topic string, logger *slog.Logger) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// PublishStateChanged implements Publisher.
func (k *Kafka) PublishStateChanged(ctx context.Context, event StateChanged) error {
	return k.publish(ctx, event.PaymentID.String(), TypeStateChanged, event)
}

// PublishExpressReturned implements Publisher.
func (k *Kafka) PublishExpressReturned(ctx context.Context, event ExpressReturned) error {
	return k.publish(ctx, event.PaymentID.String(), TypeExpressReturned, event)
}

func (k *Kafka) publish(ctx context.Context, key, eventType string, payload any) error {
	value, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	k.logger.Debug("event published", "type", eventType, "key", key)
	return nil
}

// Close flushes and closes the underlying writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
