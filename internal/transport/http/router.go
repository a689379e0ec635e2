package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"netra/internal/platform/metrics"
	"netra/internal/platform/middleware"
	"netra/pkg/platform/httputil"
)

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck pings one backing dependency.
type HealthCheck func(ctx context.Context) error

// Config holds the shared pieces every route is served with.
type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthCheck
	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers are believed. Empty means the socket address is always used.
	TrustedProxies []netip.Prefix
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter builds the API router. Feature routes get the full middleware
// chain; /metrics is served outside the JSON group.
func NewRouter(cfg Config, features ...Registrar) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientIP(middleware.NewClientIPResolver(cfg.TrustedProxies)))

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger(cfg.Logger))
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.LatencyMiddleware(cfg.Metrics))

		r.Get("/healthz", handleHealth(cfg.HealthChecks))
		for _, f := range features {
			f.Register(r)
		}
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Message: "Not found."})
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Message: "Method not allowed."})
		})
	})
	return r
}

func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
			return
		}

		var (
			mu      sync.Mutex
			results = make(map[string]string, len(checks))
			failed  bool
		)
		g, ctx := errgroup.WithContext(r.Context())
		for name, check := range checks {
			name, check := name, check
			g.Go(func() error {
				status := "ok"
				if err := check(ctx); err != nil {
					status = err.Error()
				}
				mu.Lock()
				defer mu.Unlock()
				results[name] = status
				if status != "ok" {
					failed = true
				}
				return nil
			})
		}
		_ = g.Wait()

		if failed {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Checks: results})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: results})
	}
}
