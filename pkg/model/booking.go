package model

import (
	"errors"
	"strings"
	"time"
)

// Booking is a calendar event. The JSON id key is "_id" because calendar
// clients read it back from event extended props and build /booking/{id}.
type Booking struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingInput carries the client-writable fields of a booking. Start and
// End stay raw strings until validation so a malformed timestamp is reported
// against its field instead of failing the whole body.
type BookingInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Note  string `json:"note" validate:"required,max=2000"`
	Start string `json:"start" validate:"required,timestamp"`
	End   string `json:"end" validate:"required,timestamp"`
}

var ErrInvalidTimestamp = errors.New("invalid timestamp")

const (
	minYear = 0
	maxYear = 9999
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts ISO-8601 date-times with or without a zone offset.
// Values without an offset are read in loc (UTC when loc is nil). The result
// is UTC truncated to milliseconds, the finest precision every store keeps.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return normalize(t)
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return normalize(t)
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// normalize rejects instants whose UTC year has no four-digit RFC3339 form,
// since such a value could be stored but never encoded back to JSON.
func normalize(t time.Time) (time.Time, error) {
	t = t.UTC().Truncate(time.Millisecond)
	if t.Year() < minYear || t.Year() > maxYear {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t, nil
}
