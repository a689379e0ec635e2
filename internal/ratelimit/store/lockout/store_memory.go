package lockout

import (
	"context"
	"sync"
	"time"

	"netra/internal/ratelimit/models"
	"netra/pkg/requestcontext"
)

// InMemoryStore keeps lockout records in a mutex-guarded map.
// Suitable for a single instance; use RedisStore when running several.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.Lockout
}

func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*models.Lockout)}
}

// Get returns a copy of the record, or nil when none exists.
func (s *InMemoryStore) Get(_ context.Context, key string) (*models.Lockout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return clone(rec), nil
}

// RecordFailure increments the counter, restarting it when the previous
// failure is older than window.
func (s *InMemoryStore) RecordFailure(ctx context.Context, key string, window time.Duration) (*models.Lockout, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || (rec.LockedUntil == nil && rec.WindowExpiredAt(now, window)) {
		fresh, err := models.NewLockout(key)
		if err != nil {
			return nil, err
		}
		rec = fresh
		s.records[key] = rec
	}
	rec.FailureCount++
	rec.LastFailureAt = now
	return clone(rec), nil
}

// Update replaces the stored record. ttl is ignored in memory.
func (s *InMemoryStore) Update(_ context.Context, record *models.Lockout, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Identifier] = clone(record)
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// CountLocked returns how many identifiers are locked at now.
func (s *InMemoryStore) CountLocked(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range s.records {
		if rec.IsLockedAt(now) {
			n++
		}
	}
	return n
}

// Prune drops records that are neither locked nor inside their failure
// window at now, returning how many were removed.
func (s *InMemoryStore) Prune(now time.Time, window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, rec := range s.records {
		if rec.IsLockedAt(now) || !rec.WindowExpiredAt(now, window) {
			continue
		}
		delete(s.records, key)
		removed++
	}
	return removed
}

func clone(rec *models.Lockout) *models.Lockout {
	c := *rec
	if rec.LockedUntil != nil {
		until := *rec.LockedUntil
		c.LockedUntil = &until
	}
	return &c
}
