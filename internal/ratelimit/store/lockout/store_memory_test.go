package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"netra/internal/ratelimit/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/requestcontext"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryStoreSuite) TestGet() {
	s.Run("missing key returns nil without error", func() {
		record, err := s.store.Get(context.Background(), "verify:unknown")
		s.NoError(err)
		s.Nil(record)
	})

	s.Run("returned record is a copy", func() {
		ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC))
		_, err := s.store.RecordFailure(ctx, "verify:copy", time.Minute)
		s.Require().NoError(err)

		record, err := s.store.Get(ctx, "verify:copy")
		s.Require().NoError(err)
		record.FailureCount = 99

		again, err := s.store.Get(ctx, "verify:copy")
		s.Require().NoError(err)
		s.Equal(1, again.FailureCount)
	})
}

func (s *InMemoryStoreSuite) TestRecordFailure() {
	start := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)

	s.Run("empty key is rejected", func() {
		record, err := s.store.RecordFailure(context.Background(), "", time.Minute)
		s.Nil(record)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Zero(s.store.CountLocked(start))
	})

	s.Run("subsequent failures inside the window increment", func() {
		key := "verify:repeat"
		for i := 1; i <= 3; i++ {
			ctx := requestcontext.WithTime(context.Background(), start.Add(time.Duration(i)*time.Second))
			record, err := s.store.RecordFailure(ctx, key, time.Minute)
			s.Require().NoError(err)
			s.Equal(i, record.FailureCount)
		}
	})

	s.Run("failure after the window restarts the count", func() {
		key := "verify:stale"
		ctx := requestcontext.WithTime(context.Background(), start)
		_, err := s.store.RecordFailure(ctx, key, time.Minute)
		s.Require().NoError(err)

		later := requestcontext.WithTime(context.Background(), start.Add(2*time.Minute))
		record, err := s.store.RecordFailure(later, key, time.Minute)
		s.Require().NoError(err)
		s.Equal(1, record.FailureCount)
	})

	s.Run("locked record is not reset by the window", func() {
		key := "verify:locked"
		until := start.Add(time.Hour)
		s.Require().NoError(s.store.Update(context.Background(), &models.Lockout{
			Identifier:    key,
			FailureCount:  5,
			LastFailureAt: start,
			LockedUntil:   &until,
		}, time.Hour))

		later := requestcontext.WithTime(context.Background(), start.Add(10*time.Minute))
		record, err := s.store.RecordFailure(later, key, time.Minute)
		s.Require().NoError(err)
		s.Equal(6, record.FailureCount)
		s.Equal(1, s.store.CountLocked(start.Add(10*time.Minute)))
	})
}

func (s *InMemoryStoreSuite) TestPrune() {
	start := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), start)

	_, err := s.store.RecordFailure(ctx, "verify:stale", time.Minute)
	s.Require().NoError(err)
	locked, err := s.store.RecordFailure(ctx, "verify:locked", time.Minute)
	s.Require().NoError(err)
	locked.ApplyLock(time.Hour, start)
	s.Require().NoError(s.store.Update(ctx, locked, time.Hour))

	s.Equal(0, s.store.Prune(start.Add(30*time.Second), time.Minute))
	s.Equal(1, s.store.Prune(start.Add(5*time.Minute), time.Minute))

	record, err := s.store.Get(ctx, "verify:stale")
	s.NoError(err)
	s.Nil(record)
	s.Equal(1, s.store.CountLocked(start.Add(5*time.Minute)))
}

func (s *InMemoryStoreSuite) TestClear() {
	ctx := context.Background()
	_, err := s.store.RecordFailure(ctx, "verify:clear", time.Minute)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Clear(ctx, "verify:clear"))

	record, err := s.store.Get(ctx, "verify:clear")
	s.NoError(err)
	s.Nil(record)
}
