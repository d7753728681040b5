package events

import (
	"context"
	"time"

	"calbook/pkg/model"
)

type Type string

const (
	BookingCreated Type = "booking.created"
	BookingUpdated Type = "booking.updated"
	BookingDeleted Type = "booking.deleted"
)

const SchemaVersion = "1"

// Event is the payload published for every booking mutation. Booking is
// omitted for deletions.
type Event struct {
	BookingID     string         `json:"booking_id"`
	Type          Type           `json:"type"`
	Booking       *model.Booking `json:"booking,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
	CorrelationID string         `json:"-"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NopPublisher) Close() error { return nil }
