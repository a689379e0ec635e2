package lockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"netra/internal/platform/config"
	"netra/internal/ratelimit/metrics"
	"netra/internal/ratelimit/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/audit"
	"netra/pkg/requestcontext"
)

// Store persists lockout records. Stores are pure I/O; lock decisions live here.
type Store interface {
	Get(ctx context.Context, key string) (*models.Lockout, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (*models.Lockout, error)
	Update(ctx context.Context, record *models.Lockout, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

// Auditor records security events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service locks out clients after repeated failed verification attempts.
type Service struct {
	store   Store
	config  config.LockoutConfig
	scope   models.Scope
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor Auditor
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithConfig(cfg config.LockoutConfig) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("lockout store is required")
	}
	svc := &Service{
		store:  store,
		config: config.DefaultLockout(),
		scope:  models.ScopeClinicVerification,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.config.AttemptsPerWindow < 1 {
		return nil, errors.New("lockout attempts per window must be positive")
	}
	return svc, nil
}

// Check reports whether identifier may attempt another verification.
func (s *Service) Check(ctx context.Context, identifier string) (*models.Result, error) {
	key := models.NewKey(s.scope, identifier).String()
	record, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get lockout record")
	}
	if record == nil {
		if record, err = models.NewLockout(key); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	limit := s.config.AttemptsPerWindow

	if record.IsLockedAt(now) {
		s.emit(ctx, audit.Event{
			Action:  audit.EventVerificationBlocked,
			Subject: identifier,
			IP:      identifier,
			Reason:  "locked_out",
		})
		return &models.Result{
			Allowed:      false,
			Limit:        limit,
			FailureCount: record.FailureCount,
			RetryAfter:   record.LockedUntil.Sub(now),
		}, nil
	}

	if record.LockExpiredAt(now) || record.WindowExpiredAt(now, s.config.Window) {
		record.FailureCount = 0
	}
	return &models.Result{
		Allowed:      true,
		Limit:        limit,
		Remaining:    record.RemainingAttempts(limit),
		FailureCount: record.FailureCount,
	}, nil
}

// RecordFailure counts a failed attempt and applies the lock at the threshold.
func (s *Service) RecordFailure(ctx context.Context, identifier string) (*models.Lockout, error) {
	key := models.NewKey(s.scope, identifier).String()
	current, err := s.store.RecordFailure(ctx, key, s.config.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record verification failure")
	}
	s.incrementFailures()

	now := requestcontext.Now(ctx)
	dirty := false
	if current.LockExpiredAt(now) {
		current.Reset(now)
		dirty = true
	}
	if current.ShouldLock(s.config.AttemptsPerWindow) {
		current.ApplyLock(s.config.LockDuration, now)
		dirty = true
		s.incrementLockouts()
		s.logAudit(ctx, "verification_lockout_triggered",
			"identifier", identifier,
			"failure_count", current.FailureCount,
			"locked_until", current.LockedUntil,
		)
		s.emit(ctx, audit.Event{
			Action:  audit.EventVerificationLockout,
			Subject: identifier,
			IP:      identifier,
			Reason:  "too_many_failed_verifications",
		})
	}
	if dirty {
		ttl := max(s.config.Window, s.config.LockDuration) + s.config.Window
		if err := s.store.Update(ctx, current, ttl); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update lockout record")
		}
	}
	return current, nil
}

// Clear forgets all failures for identifier, typically after a success.
func (s *Service) Clear(ctx context.Context, identifier string) error {
	key := models.NewKey(s.scope, identifier).String()
	if err := s.store.Clear(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear lockout record")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to record audit event", "action", event.Action, "error", err)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) incrementFailures() {
	if s.metrics != nil {
		s.metrics.IncrementFailures()
	}
}

func (s *Service) incrementLockouts() {
	if s.metrics != nil {
		s.metrics.IncrementLockouts()
	}
}
