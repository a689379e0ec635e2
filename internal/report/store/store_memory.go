package store

import (
	"context"
	"slices"
	"strings"

	"netra/internal/report/models"
	"netra/pkg/platform/sentinel"
)

// InMemory holds a fixed set of reports ordered newest first. It is
// read-only after construction.
type InMemory struct {
	reports []models.Report
}

func NewInMemory(reports []models.Report) *InMemory {
	s := &InMemory{reports: slices.Clone(reports)}
	sortNewestFirst(s.reports)
	return s
}

// List returns a copy of all reports, newest first.
func (s *InMemory) List(_ context.Context) ([]models.Report, error) {
	return slices.Clone(s.reports), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Report, error) {
	for _, r := range s.reports {
		if strings.EqualFold(r.ID, id) {
			found := r
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func sortNewestFirst(reports []models.Report) {
	slices.SortStableFunc(reports, func(a, b models.Report) int {
		return strings.Compare(b.Date, a.Date)
	})
}
