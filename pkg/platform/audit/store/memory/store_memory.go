package memory

import (
	"context"
	"slices"
	"sync"

	"netra/pkg/platform/audit"
)

// InMemoryStore keeps events in arrival order. With a retention limit the
// oldest events are discarded first.
type InMemoryStore struct {
	mu        sync.RWMutex
	events    []audit.Event
	retention int
}

type Option func(*InMemoryStore)

// WithRetention keeps at most n events.
func WithRetention(n int) Option {
	return func(s *InMemoryStore) {
		s.retention = n
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, events ...audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	if s.retention > 0 && len(s.events) > s.retention {
		s.events = slices.Clone(s.events[len(s.events)-s.retention:])
	}
	return nil
}

// ListBySubject returns the events recorded for subject, oldest first.
func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, e := range s.events {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListRecent returns up to limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	out := slices.Clone(s.events)
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b audit.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
