package handler

import (
	"time"

	"netra/internal/account/models"
)

type AccountResponse struct {
	ID         string            `json:"id"`
	HFRID      string            `json:"hfrId"`
	ClinicName string            `json:"clinicName"`
	Name       string            `json:"name"`
	Profile    map[string]string `json:"profile,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type CreateAccountResponse struct {
	Message string          `json:"message"`
	Account AccountResponse `json:"account"`
}

// GetAccountResponse is the body of GET /api/accounts/{id}.
type GetAccountResponse struct {
	Account AccountResponse `json:"account"`
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID.String(),
		HFRID:      a.HFRID,
		ClinicName: a.ClinicName,
		Name:       a.Name,
		Profile:    a.Profile,
		CreatedAt:  a.CreatedAt,
	}
}
