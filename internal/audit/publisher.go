package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "visaflow/pkg/domain"
)

var (
	// ErrBufferFull is returned by Emit in async mode when the queue is full.
	ErrBufferFull = errors.New("audit buffer full")
	// ErrClosed is returned by Emit once Close has started.
	ErrClosed = errors.New("audit publisher closed")
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. With an
// async buffer, events are handed to a Worker and Emit never blocks on the
// store.
type Publisher struct {
	store  Store
	logger *slog.Logger

	bufferSize int
	queue      chan Event
	done       chan struct{}

	mu     sync.RWMutex
	closed bool
}

type Option func(*Publisher)

// WithAsyncBuffer queues up to size events for a background worker.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.bufferSize = size
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.queue = make(chan Event, p.bufferSize)
		p.done = make(chan struct{})
		worker := NewWorker(store, p.queue, p.logger)
		go func() {
			defer close(p.done)
			_ = worker.Run(context.Background())
		}()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.ID.IsNil() {
		base.ID = id.NewEventID()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = AuditEvent(base.Action).Category()
	}
	if p.queue == nil {
		return p.store.Append(ctx, base)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- base:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close drains queued events and stops the worker. Emit calls that race
// with or follow Close return ErrClosed. Close is safe to call twice.
func (p *Publisher) Close() {
	if p.queue == nil {
		return
	}
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}
