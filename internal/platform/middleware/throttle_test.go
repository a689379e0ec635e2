package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleAllow(t *testing.T) {
	now := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	th := NewThrottle(1, 2, nil)
	th.now = func() time.Time { return now }

	ok, _ := th.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = th.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, wait := th.Allow("10.0.0.1")
	assert.False(t, ok, "burst exhausted")
	assert.Greater(t, wait, time.Duration(0))

	ok, _ = th.Allow("10.0.0.2")
	assert.True(t, ok, "other clients have their own bucket")

	now = now.Add(time.Second)
	ok, _ = th.Allow("10.0.0.1")
	assert.True(t, ok, "bucket refills over time")
}

func TestThrottleSweep(t *testing.T) {
	now := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	th := NewThrottle(1, 1, nil)
	th.now = func() time.Time { return now }

	th.Allow("10.0.0.1")
	now = now.Add(11 * time.Minute)
	th.Allow("10.0.0.2")

	assert.Equal(t, 1, th.Sweep())
}

func TestThrottleMiddleware(t *testing.T) {
	th := NewThrottle(0.001, 1, discardLogger())
	h := th.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/verify-clinic", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"Too many requests. Please slow down."}`, rec.Body.String())
}
