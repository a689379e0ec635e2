package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"netra/internal/clinic/registry"
	"netra/internal/clinic/service"
	"netra/internal/platform/config"
	"netra/internal/platform/middleware"
	lockoutsvc "netra/internal/ratelimit/service/lockout"
	lockoutstore "netra/internal/ratelimit/store/lockout"
	"netra/pkg/testutil"
)

type VerifyHandlerSuite struct {
	suite.Suite
	router http.Handler
}

func TestVerifyHandlerSuite(t *testing.T) {
	suite.Run(t, new(VerifyHandlerSuite))
}

func (s *VerifyHandlerSuite) SetupTest() {
	s.router = newClinicRouter(s.T(), service.New(registry.Default()))
}

func (s *VerifyHandlerSuite) TestKnownClinic() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/verify-clinic",
		map[string]string{"hfrId": "12-34-5678-ABCD"}))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{
		"message": "Clinic verified successfully.",
		"clinic": {
			"hfrId": "12-34-5678-ABCD",
			"name": "Apollo Clinic - Jubilee Hills",
			"address": "Road No. 36, Jubilee Hills, Hyderabad"
		}
	}`, rr.Body.String())
}

func (s *VerifyHandlerSuite) TestMixedCaseClinic() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/verify-clinic",
		map[string]string{"hfrId": "98-76-5432-wxyz"}))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[VerifyClinicResponse](s.T(), rr)
	s.Equal("Max Healthcare - Saket", resp.Clinic.Name)
	s.Equal("98-76-5432-WXYZ", resp.Clinic.HFRID, "registry casing is returned")
}

func (s *VerifyHandlerSuite) TestUnknownClinic() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/verify-clinic",
		map[string]string{"hfrId": "00-00-0000-ZZZZ"}))

	testutil.AssertStatusAndMessage(s.T(), rr, http.StatusNotFound, "Invalid HFR ID. This clinic is not recognized.")
}

func (s *VerifyHandlerSuite) TestMissingIdentifier() {
	for name, body := range map[string]string{
		"absent field": `{}`,
		"null":         `{"hfrId": null}`,
		"empty":        `{"hfrId": ""}`,
	} {
		s.Run(name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verify-clinic", body))
			testutil.AssertStatusAndMessage(s.T(), rr, http.StatusBadRequest, "HFR ID is required.")
		})
	}
}

func (s *VerifyHandlerSuite) TestWhitespaceOnlyIdentifierIsMissingInput() {
	for name, body := range map[string]string{
		"spaces":           `{"hfrId": "   "}`,
		"tabs and newline": `{"hfrId": "\t\n "}`,
	} {
		s.Run(name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verify-clinic", body))
			testutil.AssertStatusAndMessage(s.T(), rr, http.StatusBadRequest, "HFR ID is required.")
		})
	}

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verify-clinic", `{"hfrId": "  12-34-5678-ABCD\t"}`))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *VerifyHandlerSuite) TestMalformedBodyIsInternalError() {
	for name, body := range map[string]string{
		"not json":       `hfrId=12`,
		"wrong type":     `{"hfrId": 12}`,
		"truncated json": `{"hfrId": "12-34`,
	} {
		s.Run(name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verify-clinic", body))
			testutil.AssertStatusAndMessage(s.T(), rr, http.StatusInternalServerError, "An internal server error occurred.")
		})
	}
}

func (s *VerifyHandlerSuite) TestOnlyPostIsRouted() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/api/verify-clinic", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusMethodNotAllowed)
}

func TestVerifyHandlerLockout(t *testing.T) {
	lockout, err := lockoutsvc.New(lockoutstore.New(), lockoutsvc.WithConfig(config.LockoutConfig{
		Enabled:           true,
		AttemptsPerWindow: 1,
		Window:            time.Minute,
		LockDuration:      90 * time.Second,
	}))
	require.NoError(t, err)
	router := newClinicRouter(t, service.New(registry.Default(), service.WithLockout(lockout)))

	now := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	send := func(id string) *http.Request {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/verify-clinic", map[string]string{"hfrId": id})
		return testutil.WithRequestTime(testutil.WithClientIP(req, "203.0.113.5"), now)
	}

	rr := testutil.DoRequest(router, send("00-00-0000-ZZZZ"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.DoRequest(router, send("12-34-5678-ABCD"))
	testutil.AssertStatusAndMessage(t, rr, http.StatusTooManyRequests, "Too many failed verification attempts. Try again later.")
	assert.Equal(t, "90", rr.Header().Get("Retry-After"))
}

func TestVerifyHandlerThrottle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	throttle := middleware.NewThrottle(0.001, 1, logger)
	h := New(service.New(registry.Default()), logger, WithThrottle(throttle.Middleware))
	r := chi.NewRouter()
	h.Register(r)

	first := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/api/verify-clinic", map[string]string{"hfrId": "12-34-5678-ABCD"}))
	testutil.AssertStatus(t, first, http.StatusOK)

	second := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/api/verify-clinic", map[string]string{"hfrId": "12-34-5678-ABCD"}))
	testutil.AssertStatus(t, second, http.StatusTooManyRequests)
}

func newClinicRouter(t *testing.T, svc *service.Service) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}
