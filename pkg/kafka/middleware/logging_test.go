package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"calbook/pkg/kafka"
	"calbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging_PassesThroughAndLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})
	mw := Logging(log)

	msg := kafka.NewMessage().WithKey("abc").WithEventType("booking.created").WithRawValue([]byte(`{}`)).Build()

	called := false
	err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
		called = true
		assert.Equal(t, "abc", m.Key)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, buf.String(), "Published message")

	buf.Reset()
	boom := errors.New("broker down")
	err = mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "Failed to publish message")
	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), "booking.created")
}
