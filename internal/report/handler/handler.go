package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"netra/internal/platform/middleware"
	"netra/internal/report/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/httputil"
)

// Service lists and loads reports.
type Service interface {
	List(ctx context.Context, q models.Query) (*models.Page, error)
	Get(ctx context.Context, id string) (*models.Report, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/reports", h.handleListReports)
	r.Get("/api/reports/{id}", h.handleGetReport)
}

// handleListReports serves GET /api/reports?q=&status=&page=.
func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	status, err := models.ParseStatusFilter(params.Get("status"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page := 1
	if raw := params.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, models.MessageInvalidPage))
			return
		}
	}

	result, err := h.svc.List(ctx, models.Query{
		Text:   params.Get("q"),
		Status: status,
		Page:   page,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list reports",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to load report",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GetReportResponse{Report: report})
}
