package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"calbook/pkg/logger"
)

const (
	DefaultPublishTimeout = 5 * time.Second
	DefaultQueueSize      = 1024
)

var (
	ErrPublisherClosed = errors.New("event publisher is closed")
	ErrQueueFull       = errors.New("event queue is full")
)

type queuedEvent struct {
	ctx   context.Context
	event Event
}

// AsyncPublisher hands events to a single background worker so a slow broker
// never holds up the request that produced them. Events are delivered in the
// order they were queued, each bounded by its own timeout.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	log     *logger.Logger
	queue   chan queuedEvent
	done    chan struct{}

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	closed  bool
}

func NewAsyncPublisher(next Publisher, timeout time.Duration, queueSize int, log *logger.Logger) *AsyncPublisher {
	if next == nil {
		next = NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = logger.Discard()
	}

	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		log:     log,
		queue:   make(chan queuedEvent, queueSize),
		done:    make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)

	go p.run()
	return p
}

// Publish queues the event and returns immediately. It only fails when the
// publisher is closed or the queue is full; delivery errors are logged by the
// worker.
func (p *AsyncPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		p.pending++
		return nil
	default:
		return ErrQueueFull
	}
}

// Flush blocks until every queued event has been handed to the underlying
// publisher.
func (p *AsyncPublisher) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending > 0 {
		p.idle.Wait()
	}
}

// Close stops accepting events, drains the queue and closes the underlying
// publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}

func (p *AsyncPublisher) run() {
	defer close(p.done)

	for item := range p.queue {
		p.deliver(item)

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}
}

func (p *AsyncPublisher) deliver(item queuedEvent) {
	ctx, cancel := context.WithTimeout(item.ctx, p.timeout)
	defer cancel()

	if err := p.next.Publish(ctx, item.event); err != nil {
		p.log.Warn("Failed to publish booking event",
			"id", item.event.BookingID,
			"event_type", item.event.Type,
			"error", err,
		)
	}
}
