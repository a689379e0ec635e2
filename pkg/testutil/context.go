package testutil

import (
	"net/http"
	"time"

	"netra/pkg/requestcontext"
)

// WithClientIP sets the client IP on the request, as the ClientIP middleware would.
func WithClientIP(req *http.Request, ip string) *http.Request {
	req.RemoteAddr = ip + ":40000"
	return req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
}

// WithRequestTime pins the request-scoped time.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
