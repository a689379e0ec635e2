package service

import (
	"context"
	"errors"
	"strings"

	"netra/internal/report/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/sentinel"
)

// Store provides reports ordered newest first.
type Store interface {
	List(ctx context.Context) ([]models.Report, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
}

// Service lists past diagnostic reports.
type Service struct {
	reports Store
}

func New(reports Store) *Service {
	return &Service{reports: reports}
}

// List filters by status and text, then returns the requested page. The
// page is clamped to [1, TotalPages]; TotalPages is at least 1.
func (s *Service) List(ctx context.Context, q models.Query) (*models.Page, error) {
	all, err := s.reports.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	status := q.Status
	if status == "" {
		status = models.StatusAll
	}
	filtered := make([]models.Report, 0, len(all))
	for _, r := range all {
		if status.Matches(r.Status) && r.MatchesText(text) {
			filtered = append(filtered, r)
		}
	}

	total := len(filtered)
	totalPages := max(1, (total+models.PageSize-1)/models.PageSize)
	page := min(max(q.Page, 1), totalPages)

	start := min((page-1)*models.PageSize, total)
	end := min(start+models.PageSize, total)

	return &models.Page{
		Reports:    filtered[start:end],
		Page:       page,
		PageSize:   models.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.reports.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, models.MessageReportNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return report, nil
}
