package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"calbook/pkg/kafka"
	"calbook/pkg/model"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	messages []kafkago.Message
	err      error
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func headers(msg kafkago.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &mockWriter{}
	publisher := NewKafkaPublisherWithProducer(kafka.NewProducerWithWriter(w, nil, "bookings.events", ""), "bookings-service")

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	booking := &model.Booking{ID: "65f0c0ffee0000000000abcd", Title: "Standup", Note: "daily", Start: at, End: at.Add(15 * time.Minute)}

	err := publisher.Publish(context.Background(), Event{
		BookingID:     booking.ID,
		Type:          BookingCreated,
		Booking:       booking,
		OccurredAt:    at,
		CorrelationID: "req-42",
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, booking.ID, string(msg.Key))

	h := headers(msg)
	assert.Equal(t, "booking.created", h[kafka.HeaderEventType])
	assert.Equal(t, "bookings-service", h[kafka.HeaderSource])
	assert.Equal(t, SchemaVersion, h[kafka.HeaderSchemaVersion])
	assert.Equal(t, "req-42", h[kafka.HeaderCorrelationID])
	assert.NotEmpty(t, h[kafka.HeaderEventID])

	assert.JSONEq(t, `{
		"booking_id": "65f0c0ffee0000000000abcd",
		"type": "booking.created",
		"occurred_at": "2026-03-02T09:00:00Z",
		"booking": {
			"_id": "65f0c0ffee0000000000abcd",
			"title": "Standup",
			"note": "daily",
			"start": "2026-03-02T09:00:00Z",
			"end": "2026-03-02T09:15:00Z",
			"created_at": "0001-01-01T00:00:00Z",
			"updated_at": "0001-01-01T00:00:00Z"
		}
	}`, string(msg.Value))
}

func TestKafkaPublisher_DeleteOmitsBooking(t *testing.T) {
	w := &mockWriter{}
	publisher := NewKafkaPublisherWithProducer(kafka.NewProducerWithWriter(w, nil, "bookings.events", ""), "bookings-service")

	err := publisher.Publish(context.Background(), Event{BookingID: "abc", Type: BookingDeleted, OccurredAt: time.Now()})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.NotContains(t, string(w.messages[0].Value), `"booking":`)
	_, hasCorrelation := headers(w.messages[0])[kafka.HeaderCorrelationID]
	assert.False(t, hasCorrelation)
}

func TestKafkaPublisher_WrapsFailures(t *testing.T) {
	boom := errors.New("no brokers")
	publisher := NewKafkaPublisherWithProducer(kafka.NewProducerWithWriter(&mockWriter{err: boom}, nil, "t", ""), "s")

	err := publisher.Publish(context.Background(), Event{BookingID: "abc", Type: BookingUpdated})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "booking.updated")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
