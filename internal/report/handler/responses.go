package handler

import "netra/internal/report/models"

// GetReportResponse wraps a single report so the envelope can grow without
// breaking clients.
type GetReportResponse struct {
	Report *models.Report `json:"report"`
}
