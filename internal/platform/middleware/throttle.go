package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"netra/pkg/platform/httputil"
	"netra/pkg/requestcontext"
)

// ThrottledMessage is returned when a client exceeds the per-IP request rate.
const ThrottledMessage = "Too many requests. Please slow down."

// Throttle is a per-client-IP token bucket. It protects cheap endpoints from
// bursts; failure-based lockout lives in the ratelimit package.
type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle builds a throttle allowing perSecond requests with the given burst.
func NewThrottle(perSecond float64, burst int, logger *slog.Logger) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		logger:   logger,
		now:      time.Now,
	}
}

// Allow reports whether the client may proceed and, if not, how long to wait.
func (t *Throttle) Allow(ip string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	v, ok := t.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[ip] = v
	}
	v.lastSeen = now

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Sweep forgets clients idle for longer than the idle TTL.
func (t *Throttle) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.idleTTL)
	removed := 0
	for ip, v := range t.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(t.limiters, ip)
			removed++
		}
	}
	return removed
}

// Middleware rejects over-limit clients with 429 and Retry-After.
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := requestcontext.ClientIP(r.Context())
		if ip == "" {
			ip = RemoteIP(r)
		}
		allowed, wait := t.Allow(ip)
		if !allowed {
			if t.logger != nil {
				t.logger.WarnContext(r.Context(), "request throttled",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
				)
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{Message: ThrottledMessage})
			return
		}
		next.ServeHTTP(w, r)
	})
}
