package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"netra/pkg/requestcontext"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = time.Second
)

// Publisher delivers events to a Store. Compliance events are appended before
// Emit returns and their errors are reported; other events are buffered and
// flushed by Run.
type Publisher struct {
	store         Store
	buffer        *ringBuffer
	logger        *slog.Logger
	batchSize     int
	flushInterval time.Duration
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		p.buffer = newRingBuffer(n)
	}
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		buffer:        newRingBuffer(0),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps event from the request context and delivers it.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}

	if event.Category == CategoryCompliance {
		if err := p.store.Append(ctx, event); err != nil {
			return fmt.Errorf("appending %s audit event: %w", event.Action, err)
		}
		return nil
	}

	if p.buffer.enqueue(event) && p.logger != nil {
		p.logger.WarnContext(ctx, "audit buffer full, dropped oldest event", "action", event.Action)
	}
	return nil
}

// Pending returns the number of buffered events.
func (p *Publisher) Pending() int { return p.buffer.len() }

// Dropped returns how many buffered events were discarded because the buffer
// was full.
func (p *Publisher) Dropped() int64 { return p.buffer.droppedTotal() }

// Flush writes every buffered event to the store. A batch the store rejects
// goes back to the front of the buffer for the next flush.
func (p *Publisher) Flush(ctx context.Context) error {
	for {
		batch := p.buffer.dequeueBatch(p.batchSize)
		if len(batch) == 0 {
			return nil
		}
		if err := p.store.Append(ctx, batch...); err != nil {
			p.buffer.requeue(batch)
			return fmt.Errorf("flushing %d audit events: %w", len(batch), err)
		}
	}
}

// Run flushes the buffer every flush interval until ctx ends, then flushes
// once more with a fresh context.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			err := p.Flush(final)
			cancel()
			return err
		case <-ticker.C:
			if err := p.Flush(ctx); err != nil && p.logger != nil {
				p.logger.ErrorContext(ctx, "failed to flush audit events", "error", err)
			}
		}
	}
}
