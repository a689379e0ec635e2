package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace/noop"

	"netra/internal/clinic/metrics"
	"netra/internal/clinic/models"
	"netra/internal/clinic/registry"
	"netra/internal/platform/config"
	rlmodels "netra/internal/ratelimit/models"
	lockoutsvc "netra/internal/ratelimit/service/lockout"
	lockoutstore "netra/internal/ratelimit/store/lockout"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/requestcontext"
)

type VerifyServiceSuite struct {
	suite.Suite
	svc     *Service
	metrics *metrics.Metrics
}

func TestVerifyServiceSuite(t *testing.T) {
	suite.Run(t, new(VerifyServiceSuite))
}

func (s *VerifyServiceSuite) SetupTest() {
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.svc = New(registry.Default(), WithMetrics(s.metrics), WithTracer(noop.NewTracerProvider().Tracer("test")))
}

func (s *VerifyServiceSuite) TestKnownIdentifiersInAnyCase() {
	for _, rec := range registry.Seed() {
		for _, id := range []string{rec.HFRID, strings.ToUpper(rec.HFRID), strings.ToLower(rec.HFRID)} {
			found, err := s.svc.Verify(context.Background(), id)
			s.Require().NoError(err, id)
			s.Equal(rec, *found)
		}
	}
	s.Equal(9.0, testutil.ToFloat64(s.metrics.Verifications.WithLabelValues(metrics.OutcomeVerified)))
}

func (s *VerifyServiceSuite) TestMixedCaseScenario() {
	found, err := s.svc.Verify(context.Background(), "98-76-5432-wxyz")
	s.Require().NoError(err)
	s.Equal("Max Healthcare - Saket", found.Name)
}

func (s *VerifyServiceSuite) TestUnknownIdentifierIsNotFound() {
	for _, id := range []string{"00-00-0000-ZZZZ", "12-34-5678-ABCDE", "apollo"} {
		_, err := s.svc.Verify(context.Background(), id)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), id)
		s.Equal(models.MessageNotRecognized, err.Error())
	}
}

func (s *VerifyServiceSuite) TestEmptyIdentifierIsMissingInput() {
	for _, id := range []string{"", "   ", "\t\n"} {
		_, err := s.svc.Verify(context.Background(), id)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeMissingInput), "%q", id)
		s.False(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal(models.MessageIDRequired, err.Error())
	}
}

func (s *VerifyServiceSuite) TestLockoutAfterRepeatedFailures() {
	lockout, err := lockoutsvc.New(lockoutstore.New(), lockoutsvc.WithConfig(config.LockoutConfig{
		Enabled:           true,
		AttemptsPerWindow: 2,
		Window:            time.Minute,
		LockDuration:      5 * time.Minute,
	}))
	s.Require().NoError(err)
	svc := New(registry.Default(), WithLockout(lockout), WithMetrics(s.metrics))

	now := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithClientIP(requestcontext.WithTime(context.Background(), now), "198.51.100.7")

	for i := 0; i < 2; i++ {
		_, err := svc.Verify(ctx, "00-00-0000-ZZZZ")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	}

	_, err = svc.Verify(ctx, "12-34-5678-ABCD")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
	var locked *LockedOutError
	s.Require().True(errors.As(err, &locked))
	s.Equal(5*time.Minute, locked.RetryAfter)

	s.Run("other clients are unaffected", func() {
		other := requestcontext.WithClientIP(requestcontext.WithTime(context.Background(), now), "198.51.100.8")
		_, err := svc.Verify(other, "12-34-5678-ABCD")
		s.NoError(err)
	})

	s.Run("success clears previous failures", func() {
		later := requestcontext.WithClientIP(requestcontext.WithTime(context.Background(), now.Add(6*time.Minute)), "198.51.100.7")
		_, err := svc.Verify(later, "12-34-5678-ABCD")
		s.Require().NoError(err)

		res, err := lockout.Check(later, "198.51.100.7")
		s.Require().NoError(err)
		s.Equal(2, res.Remaining)
	})
}

func (s *VerifyServiceSuite) TestLockoutStoreFailureIsInternal() {
	svc := New(registry.Default(), WithLockout(brokenLockout{}))
	ctx := requestcontext.WithClientIP(context.Background(), "198.51.100.9")

	_, err := svc.Verify(ctx, "12-34-5678-ABCD")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *VerifyServiceSuite) TestLockoutSkippedWithoutClientIP() {
	svc := New(registry.Default(), WithLockout(brokenLockout{}))

	found, err := svc.Verify(context.Background(), "11-22-3344-efgh")
	s.Require().NoError(err)
	s.Equal("Fortis Hospital - Bannerghatta", found.Name)
}

type brokenLockout struct{}

func (brokenLockout) Check(context.Context, string) (*rlmodels.Result, error) {
	return nil, errors.New("redis down")
}
func (brokenLockout) RecordFailure(context.Context, string) (*rlmodels.Lockout, error) {
	return nil, errors.New("redis down")
}
func (brokenLockout) Clear(context.Context, string) error { return errors.New("redis down") }
