package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"netra/internal/account/models"
	"netra/internal/account/service"
	"netra/internal/platform/middleware"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/httputil"
)

const maxBodyBytes = 64 << 10

// Service creates and loads clinic accounts.
type Service interface {
	Create(ctx context.Context, cmd service.CreateCommand) (*models.Account, error)
	Get(ctx context.Context, accountID string) (*models.Account, error)
}

// Handler serves the account endpoints.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the account routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/accounts", h.handleCreateAccount)
	r.Get("/api/accounts/{id}", h.handleGetAccount)
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req CreateAccountRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create account request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body."))
		return
	}

	account, err := h.svc.Create(ctx, service.CreateCommand{
		HFRID:    req.HFRID,
		Name:     req.Name,
		Password: req.Password,
		Profile:  req.Profile,
	})
	if err != nil {
		h.logFailure(ctx, "account creation failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreateAccountResponse{
		Message: models.MessageCreated,
		Account: toAccountResponse(account),
	})
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "account lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GetAccountResponse{Account: toAccountResponse(account)})
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
