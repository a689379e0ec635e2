package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"netra/internal/patient/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/audit"
	"netra/pkg/platform/sentinel"
	"netra/pkg/requestcontext"
)

// Store persists patient records in registration order.
type Store interface {
	List(ctx context.Context) ([]models.Patient, error)
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
}

// Auditor records compliance events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service searches and registers patients.
type Service struct {
	patients Store
	logger   *slog.Logger
	auditor  Auditor
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func New(patients Store, opts ...Option) *Service {
	s := &Service{patients: patients}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List filters by text and returns the requested page, clamped to
// [1, TotalPages].
func (s *Service) List(ctx context.Context, q models.Query) (*models.Page, error) {
	all, err := s.patients.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list patients")
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	filtered := make([]models.Patient, 0, len(all))
	for _, p := range all {
		if p.MatchesText(text) {
			filtered = append(filtered, p)
		}
	}

	total := len(filtered)
	totalPages := max(1, (total+models.PageSize-1)/models.PageSize)
	page := min(max(q.Page, 1), totalPages)
	start := min((page-1)*models.PageSize, total)
	end := min(start+models.PageSize, total)

	return &models.Page{
		Patients:   filtered[start:end],
		Page:       page,
		PageSize:   models.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patients.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, models.MessagePatientNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load patient")
	}
	return patient, nil
}

// Register validates the intake form and stores a new patient.
func (s *Service) Register(ctx context.Context, r models.Registration) (*models.Patient, error) {
	patient, err := models.NewPatient(uuid.NewString(), r, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, models.MessageDuplicate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register patient")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, string(audit.EventPatientRegistered),
			"patient_id", patient.ID,
			"request_id", requestcontext.RequestID(ctx),
			"event", audit.EventPatientRegistered,
			"log_type", "audit",
		)
	}
	if s.auditor != nil {
		event := audit.Event{
			Action:  audit.EventPatientRegistered,
			Subject: patient.ID,
			IP:      requestcontext.ClientIP(ctx),
		}
		if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to record audit event",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
	}
	return patient, nil
}
