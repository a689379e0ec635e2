package handler

import "netra/internal/clinic/models"

// VerifyClinicResponse is the 200 body of POST /api/verify-clinic.
type VerifyClinicResponse struct {
	Message string              `json:"message"`
	Clinic  models.ClinicRecord `json:"clinic"`
}
