// Package handler exposes the recorded audit trail for operators.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"netra/internal/platform/middleware"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/audit"
	"netra/pkg/platform/httputil"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500

	MessageInvalidLimit = "Limit must be an integer between 1 and 500."
)

// Reader is the query side of an audit store.
type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
	ListBySubject(ctx context.Context, subject string) ([]audit.Event, error)
}

type Handler struct {
	reader Reader
	logger *slog.Logger
}

func New(reader Reader, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/audit", h.handleListEvents)
}

type ListEventsResponse struct {
	Events []audit.Event `json:"events"`
}

// handleListEvents serves GET /api/audit?subject=&limit=, newest first.
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	limit := DefaultLimit
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, MessageInvalidLimit))
			return
		}
		limit = n
	}

	var (
		events []audit.Event
		err    error
	)
	if subject := strings.TrimSpace(params.Get("subject")); subject != "" {
		events, err = h.reader.ListBySubject(ctx, subject)
		slices.Reverse(events)
		if len(events) > limit {
			events = events[:limit]
		}
	} else {
		events, err = h.reader.ListRecent(ctx, limit)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read audit events",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "read audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, ListEventsResponse{Events: events})
}
