package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"netra/internal/patient/models"
	"netra/internal/platform/middleware"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/httputil"
)

const maxBodyBytes = 64 << 10

// Service searches, loads and registers patients.
type Service interface {
	List(ctx context.Context, q models.Query) (*models.Page, error)
	Get(ctx context.Context, id string) (*models.Patient, error)
	Register(ctx context.Context, r models.Registration) (*models.Patient, error)
}

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/patients", h.handleListPatients)
	r.Post("/api/patients", h.handleRegisterPatient)
	r.Get("/api/patients/{id}", h.handleGetPatient)
}

// handleListPatients serves GET /api/patients?q=&page=.
func (h *Handler) handleListPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	page := 1
	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, models.MessageInvalidPage))
			return
		}
		page = n
	}

	result, err := h.svc.List(ctx, models.Query{Text: params.Get("q"), Page: page})
	if err != nil {
		h.logFailure(ctx, "failed to list patients", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterPatientRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register patient request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body."))
		return
	}

	patient, err := h.svc.Register(ctx, req.toRegistration())
	if err != nil {
		h.logFailure(ctx, "patient registration failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, RegisterPatientResponse{
		Message: models.MessageRegistered,
		Patient: patient,
	})
}

func (h *Handler) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patient, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "failed to load patient", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GetPatientResponse{Patient: patient})
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
