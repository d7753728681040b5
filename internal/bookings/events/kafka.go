package events

import (
	"context"
	"fmt"

	"calbook/pkg/kafka"
	kafka_config "calbook/pkg/kafka/config"
	kafka_middleware "calbook/pkg/kafka/middleware"
	"calbook/pkg/logger"
)

// KafkaPublisher writes booking events keyed by booking id, so every change
// to one booking lands on the same partition in order.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(cfg *kafka_config.Config, log *logger.Logger, topic, source string) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(cfg, log, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking event producer: %w", err)
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.Logging(log))
	}
	return NewKafkaPublisherWithProducer(producer, source), nil
}

func NewKafkaPublisherWithProducer(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithEventID("").
		WithEventType(string(event.Type)).
		WithSource(p.source).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(event.CorrelationID).
		WithTimestamp(event.OccurredAt).
		WithValue(event).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event for booking %s: %w", event.Type, event.BookingID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
