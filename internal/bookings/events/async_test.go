package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"calbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mu          sync.Mutex
	publishFunc func(ctx context.Context, event Event) error
	published   []Event
	closed      bool
}

func (m *mockPublisher) Publish(ctx context.Context, event Event) error {
	var err error
	if m.publishFunc != nil {
		err = m.publishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return err
}

func (m *mockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockPublisher) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.published {
		out = append(out, e.BookingID)
	}
	return out
}

func TestAsyncPublisher_DeliversInOrder(t *testing.T) {
	next := &mockPublisher{}
	p := NewAsyncPublisher(next, time.Second, 0, logger.Discard())
	t.Cleanup(func() { _ = p.Close() })

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, p.Publish(context.Background(), Event{BookingID: id, Type: BookingUpdated}))
	}
	p.Flush()

	assert.Equal(t, []string{"a", "b", "c"}, next.ids())
}

func TestAsyncPublisher_PublishReturnsBeforeDelivery(t *testing.T) {
	release := make(chan struct{})
	next := &mockPublisher{publishFunc: func(ctx context.Context, event Event) error {
		<-release
		return nil
	}}
	p := NewAsyncPublisher(next, time.Minute, 0, logger.Discard())

	done := make(chan error, 1)
	go func() { done <- p.Publish(context.Background(), Event{BookingID: "a"}) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on delivery")
	}

	close(release)
	require.NoError(t, p.Close())
	assert.Equal(t, []string{"a"}, next.ids())
}

func TestAsyncPublisher_DeliveryIsBoundedByTimeout(t *testing.T) {
	deadlines := make(chan bool, 1)
	next := &mockPublisher{publishFunc: func(ctx context.Context, event Event) error {
		_, ok := ctx.Deadline()
		deadlines <- ok
		<-ctx.Done()
		return ctx.Err()
	}}
	p := NewAsyncPublisher(next, 20*time.Millisecond, 0, logger.Discard())

	// A cancelled request context must not cancel delivery early.
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Publish(ctx, Event{BookingID: "a"}))
	cancel()

	p.Flush()
	assert.True(t, <-deadlines)
	require.NoError(t, p.Close())
}

func TestAsyncPublisher_DeliveryErrorIsSwallowed(t *testing.T) {
	next := &mockPublisher{publishFunc: func(ctx context.Context, event Event) error {
		return errors.New("broker down")
	}}
	p := NewAsyncPublisher(next, time.Second, 0, logger.Discard())

	require.NoError(t, p.Publish(context.Background(), Event{BookingID: "a"}))
	require.NoError(t, p.Close())
	assert.Equal(t, []string{"a"}, next.ids())
}

func TestAsyncPublisher_QueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	next := &mockPublisher{publishFunc: func(ctx context.Context, event Event) error {
		started <- struct{}{}
		<-release
		return nil
	}}
	p := NewAsyncPublisher(next, time.Minute, 1, logger.Discard())

	require.NoError(t, p.Publish(context.Background(), Event{BookingID: "a"}))
	<-started
	require.NoError(t, p.Publish(context.Background(), Event{BookingID: "b"}))

	err := p.Publish(context.Background(), Event{BookingID: "c"})
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	require.NoError(t, p.Close())
	assert.Equal(t, []string{"a", "b"}, next.ids())
}

func TestAsyncPublisher_Close(t *testing.T) {
	next := &mockPublisher{}
	p := NewAsyncPublisher(next, time.Second, 0, logger.Discard())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, next.closed)

	err := p.Publish(context.Background(), Event{BookingID: "a"})
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
