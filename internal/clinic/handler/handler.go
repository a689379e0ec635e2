package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"netra/internal/clinic/models"
	"netra/internal/clinic/service"
	"netra/internal/platform/middleware"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/httputil"
)

// Service verifies clinic license identifiers.
type Service interface {
	Verify(ctx context.Context, hfrID string) (*models.ClinicRecord, error)
}

// Handler serves the clinic verification endpoint.
type Handler struct {
	svc      Service
	logger   *slog.Logger
	throttle func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithThrottle puts a request-rate guard in front of the verify route.
func WithThrottle(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.throttle = mw
	}
}

func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{svc: svc, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the clinic routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.throttle != nil {
			r.Use(h.throttle)
		}
		r.Post("/api/verify-clinic", h.handleVerifyClinic)
	})
}

func (h *Handler) handleVerifyClinic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req VerifyClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Unreadable bodies are reported as server errors, not validation errors.
		h.logger.ErrorContext(ctx, "failed to decode verify clinic request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "decode request"))
		return
	}

	clinic, err := h.svc.Verify(ctx, req.HFRID)
	if err != nil {
		var locked *service.LockedOutError
		if errors.As(err, &locked) {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(locked.RetryAfter.Seconds()))))
		}
		if dErrors.HasCode(err, dErrors.CodeInternal) || !isDomainError(err) {
			h.logger.ErrorContext(ctx, "clinic verification failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, VerifyClinicResponse{
		Message: models.MessageVerified,
		Clinic:  *clinic,
	})
}

func isDomainError(err error) bool {
	_, ok := dErrors.As(err)
	return ok
}
