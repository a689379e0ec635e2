package audit_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"netra/pkg/platform/audit"
	"netra/pkg/platform/audit/store/memory"
	"netra/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, ...audit.Event) error {
	return errors.New("disk full")
}

// flakyStore fails the first failures appends and then delegates. onFail
// runs while a failing append is in flight.
type flakyStore struct {
	*memory.InMemoryStore
	failures int
	onFail   func()
}

func (s *flakyStore) Append(ctx context.Context, events ...audit.Event) error {
	if s.failures > 0 {
		s.failures--
		if s.onFail != nil {
			s.onFail()
		}
		return errors.New("connection reset")
	}
	return s.InMemoryStore.Append(ctx, events...)
}

func requestCtx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return requestcontext.WithRequestID(ctx, "req-1")
}

func TestCategoryMapping(t *testing.T) {
	assert.Equal(t, audit.CategoryCompliance, audit.EventAccountCreated.Category())
	assert.Equal(t, audit.CategorySecurity, audit.EventVerificationLockout.Category())
	assert.Equal(t, audit.CategoryOperations, audit.AuditEvent("something_else").Category())
}

func TestComplianceEventsAreWrittenImmediately(t *testing.T) {
	store := memory.NewInMemoryStore()
	p := audit.NewPublisher(store)

	err := p.Emit(requestCtx(), audit.Event{Action: audit.EventAccountCreated, Subject: "acc-1", HFRID: "12-34-5678-ABCD"})
	require.NoError(t, err)

	events, err := store.ListBySubject(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), events[0].Timestamp)
	assert.Zero(t, p.Pending())
}

func TestComplianceEventStoreErrorIsReturned(t *testing.T) {
	p := audit.NewPublisher(failingStore{})
	err := p.Emit(context.Background(), audit.Event{Action: audit.EventAccountCreated})
	assert.ErrorContains(t, err, "disk full")
}

func TestSecurityEventsAreBufferedUntilFlush(t *testing.T) {
	store := memory.NewInMemoryStore()
	p := audit.NewPublisher(store)

	require.NoError(t, p.Emit(requestCtx(), audit.Event{Action: audit.EventVerificationLockout, Subject: "203.0.113.9"}))
	assert.Equal(t, 1, p.Pending())

	events, _ := store.ListBySubject(context.Background(), "203.0.113.9")
	assert.Empty(t, events)

	require.NoError(t, p.Flush(context.Background()))
	events, _ = store.ListBySubject(context.Background(), "203.0.113.9")
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestFullBufferDropsOldest(t *testing.T) {
	store := memory.NewInMemoryStore()
	p := audit.NewPublisher(store, audit.WithBufferSize(2))

	for _, subject := range []string{"a", "b", "c"} {
		require.NoError(t, p.Emit(context.Background(), audit.Event{Action: audit.EventVerificationBlocked, Subject: subject}))
	}
	assert.Equal(t, int64(1), p.Dropped())
	require.NoError(t, p.Flush(context.Background()))

	events, _ := store.ListRecent(context.Background(), -1)
	subjects := make([]string, 0, len(events))
	for _, e := range events {
		subjects = append(subjects, e.Subject)
	}
	assert.ElementsMatch(t, []string{"b", "c"}, subjects)
}

func TestFailedFlushKeepsEventsForRetry(t *testing.T) {
	store := &flakyStore{InMemoryStore: memory.NewInMemoryStore(), failures: 1}
	p := audit.NewPublisher(store)
	blocked := func(reason string) audit.Event {
		return audit.Event{Action: audit.EventVerificationBlocked, Subject: "203.0.113.9", Reason: reason}
	}

	require.NoError(t, p.Emit(context.Background(), blocked("a")))
	require.NoError(t, p.Emit(context.Background(), blocked("b")))

	err := p.Flush(context.Background())
	require.ErrorContains(t, err, "connection reset")
	assert.Equal(t, 2, p.Pending())

	require.NoError(t, p.Emit(context.Background(), blocked("c")))
	require.NoError(t, p.Flush(context.Background()))
	assert.Zero(t, p.Pending())
	assert.Zero(t, p.Dropped())

	events, _ := store.ListBySubject(context.Background(), "203.0.113.9")
	reasons := make([]string, 0, len(events))
	for _, e := range events {
		reasons = append(reasons, e.Reason)
	}
	assert.Equal(t, []string{"a", "b", "c"}, reasons)
}

func TestRequeueIntoFullBufferDropsOldest(t *testing.T) {
	store := &flakyStore{InMemoryStore: memory.NewInMemoryStore(), failures: 1}
	p := audit.NewPublisher(store, audit.WithBufferSize(2))
	store.onFail = func() {
		for _, subject := range []string{"c", "d"} {
			_ = p.Emit(context.Background(), audit.Event{Action: audit.EventVerificationBlocked, Subject: subject})
		}
	}

	for _, subject := range []string{"a", "b"} {
		require.NoError(t, p.Emit(context.Background(), audit.Event{Action: audit.EventVerificationBlocked, Subject: subject}))
	}
	require.Error(t, p.Flush(context.Background()))
	assert.Equal(t, 2, p.Pending())
	assert.Equal(t, int64(2), p.Dropped())

	require.NoError(t, p.Flush(context.Background()))
	events, _ := store.ListRecent(context.Background(), -1)
	subjects := make([]string, 0, len(events))
	for _, e := range events {
		subjects = append(subjects, e.Subject)
	}
	assert.ElementsMatch(t, []string{"c", "d"}, subjects)
}

func TestRegisterMetricsExportsBufferState(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := audit.NewPublisher(memory.NewInMemoryStore(), audit.WithBufferSize(1))
	audit.RegisterMetrics(reg, p)

	for _, subject := range []string{"a", "b"} {
		require.NoError(t, p.Emit(context.Background(), audit.Event{Action: audit.EventVerificationBlocked, Subject: subject}))
	}

	expected := `
# HELP netra_audit_events_dropped_total Audit events discarded because the buffer was full
# TYPE netra_audit_events_dropped_total counter
netra_audit_events_dropped_total 1
# HELP netra_audit_events_pending Audit events buffered and not yet written to the store
# TYPE netra_audit_events_pending gauge
netra_audit_events_pending 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected),
		"netra_audit_events_pending", "netra_audit_events_dropped_total"))
}

func TestRunFlushesOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := memory.NewInMemoryStore()
	p := audit.NewPublisher(store, audit.WithFlushInterval(time.Hour))
	require.NoError(t, p.Emit(context.Background(), audit.Event{Action: audit.EventVerificationBlocked, Subject: "x"}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	events, _ := store.ListBySubject(context.Background(), "x")
	assert.Len(t, events, 1)
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	store := memory.NewInMemoryStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(context.Background(),
		audit.Event{Subject: "old", Timestamp: base},
		audit.Event{Subject: "new", Timestamp: base.Add(time.Hour)},
	))

	events, err := store.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Subject)
}

func TestInMemoryRetentionDropsOldest(t *testing.T) {
	store := memory.NewInMemoryStore(memory.WithRetention(2))
	for _, subject := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(context.Background(), audit.Event{Subject: subject}))
	}

	events, _ := store.ListBySubject(context.Background(), "a")
	assert.Empty(t, events)
	events, _ = store.ListBySubject(context.Background(), "c")
	assert.Len(t, events, 1)
}
