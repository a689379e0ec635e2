package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"netra/internal/clinic/metrics"
	"netra/internal/clinic/models"
	rlmodels "netra/internal/ratelimit/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/requestcontext"
)

// Registry resolves a license identifier to a clinic.
type Registry interface {
	Lookup(hfrID string) (models.ClinicRecord, bool)
}

// Lockout guards verification against repeated failures from one client.
type Lockout interface {
	Check(ctx context.Context, identifier string) (*rlmodels.Result, error)
	RecordFailure(ctx context.Context, identifier string) (*rlmodels.Lockout, error)
	Clear(ctx context.Context, identifier string) error
}

// LockedOutError is returned when the caller must wait before retrying.
type LockedOutError struct {
	RetryAfter time.Duration
}

func (e *LockedOutError) Error() string {
	return models.MessageTooManyAttempts
}

// Service verifies clinic license identifiers against the registry.
type Service struct {
	registry Registry
	lockout  Lockout
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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

// WithLockout enables failure lockout keyed on the caller's IP.
func WithLockout(l Lockout) Option {
	return func(s *Service) {
		s.lockout = l
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(registry Registry, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		tracer:   otel.Tracer("netra/clinic"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify resolves hfrID to its clinic record.
//
// Errors carry codes: CodeMissingInput for an empty id, CodeNotFound when no
// clinic matches, CodeRateLimited (wrapping *LockedOutError) when the caller is
// locked out, and CodeInternal otherwise.
func (s *Service) Verify(ctx context.Context, hfrID string) (*models.ClinicRecord, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "clinic.Verify")
	defer span.End()
	defer s.observe(start)

	hfrID = strings.TrimSpace(hfrID)
	if hfrID == "" {
		s.outcome(span, metrics.OutcomeMissingInput)
		return nil, dErrors.New(dErrors.CodeMissingInput, models.MessageIDRequired)
	}

	identifier := requestcontext.ClientIP(ctx)
	if s.lockout != nil && identifier != "" {
		res, err := s.lockout.Check(ctx, identifier)
		if err != nil {
			s.outcome(span, metrics.OutcomeError)
			span.RecordError(err)
			span.SetStatus(codes.Error, "lockout check failed")
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check verification lockout")
		}
		if !res.Allowed {
			s.outcome(span, metrics.OutcomeRateLimited)
			s.logWarn(ctx, "verification blocked by lockout",
				"failure_count", res.FailureCount,
				"retry_after_seconds", int(res.RetryAfter.Seconds()),
			)
			return nil, dErrors.Wrap(&LockedOutError{RetryAfter: res.RetryAfter},
				dErrors.CodeRateLimited, models.MessageTooManyAttempts)
		}
	}

	clinic, ok := s.registry.Lookup(hfrID)
	if !ok {
		s.outcome(span, metrics.OutcomeNotFound)
		if s.lockout != nil && identifier != "" {
			if _, err := s.lockout.RecordFailure(ctx, identifier); err != nil {
				s.logWarn(ctx, "failed to record verification failure", "error", err)
			}
		}
		s.logAudit(ctx, "clinic_verification_failed")
		return nil, dErrors.New(dErrors.CodeNotFound, models.MessageNotRecognized)
	}

	if s.lockout != nil && identifier != "" {
		if err := s.lockout.Clear(ctx, identifier); err != nil {
			s.logWarn(ctx, "failed to clear verification lockout", "error", err)
		}
	}
	s.outcome(span, metrics.OutcomeVerified)
	span.SetAttributes(attribute.String("clinic.hfr_id", clinic.HFRID))
	s.logAudit(ctx, "clinic_verified", "hfr_id", clinic.HFRID)
	return &clinic, nil
}

func (s *Service) outcome(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String("verification.outcome", outcome))
	if s.metrics != nil {
		s.metrics.IncrementOutcome(outcome)
	}
}

func (s *Service) observe(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveVerification(start)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, attributes ...any) {
	if s.logger == nil {
		return
	}
	attributes = append(attributes, "request_id", requestcontext.RequestID(ctx))
	s.logger.WarnContext(ctx, msg, attributes...)
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
