package httpserver

import (
	"net/http"
	"time"
)

// writeSlack keeps the write deadline past the handler timeout so timed-out
// handlers can still send their 503.
const writeSlack = 5 * time.Second

type Option func(*http.Server)

// WithHandlerTimeout sizes the write deadline to the router's per-request
// timeout.
func WithHandlerTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		if d > 0 {
			s.WriteTimeout = d + writeSlack
		}
	}
}

// New builds the Netra API server. Request bodies are small JSON documents,
// so header and body reads are bounded tightly.
func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}
