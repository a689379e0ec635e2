package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"netra/internal/account/metrics"
	"netra/internal/account/models"
	"netra/internal/account/secrets"
	clinicmodels "netra/internal/clinic/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/audit"
	"netra/pkg/platform/sentinel"
	"netra/pkg/requestcontext"
)

// Store persists accounts.
type Store interface {
	CreateIfNameAvailable(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// ClinicVerifier resolves a license id to its registered clinic.
type ClinicVerifier interface {
	Verify(ctx context.Context, hfrID string) (*clinicmodels.ClinicRecord, error)
}

// Auditor records compliance events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CreateCommand is the input for account creation.
type CreateCommand struct {
	HFRID    string
	Name     string
	Password string
	Profile  map[string]string
}

// Service creates clinic accounts for verified licenses.
type Service struct {
	accounts   Store
	clinics    ClinicVerifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditor    Auditor
	bcryptCost int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(accounts Store, clinics ClinicVerifier, opts ...Option) *Service {
	s := &Service{
		accounts:   accounts,
		clinics:    clinics,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the command, re-verifies the license and stores a new
// account bound to the registry's clinic record.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Account, error) {
	name := strings.TrimSpace(cmd.Name)
	if err := models.ValidateName(name); err != nil {
		s.rejected("validation")
		return nil, err
	}
	if err := models.ValidatePassword(cmd.Password); err != nil {
		s.rejected("validation")
		return nil, err
	}

	clinic, err := s.clinics.Verify(ctx, cmd.HFRID)
	if err != nil {
		s.rejected("license")
		return nil, err
	}

	account, err := models.NewAccount(uuid.New(), clinic.HFRID, clinic.Name, name, normalizeProfile(cmd.Profile), requestcontext.Now(ctx))
	if err != nil {
		s.rejected("validation")
		return nil, err
	}
	hash, err := secrets.Hash(cmd.Password, s.bcryptCost)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			s.rejected("validation")
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	account.PasswordHash = hash

	if err := s.accounts.CreateIfNameAvailable(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.rejected("duplicate")
			return nil, dErrors.New(dErrors.CodeConflict, models.MessageDuplicate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	s.logAudit(ctx, "account_created",
		"account_id", account.ID.String(),
		"hfr_id", account.HFRID,
	)
	s.emit(ctx, audit.Event{
		Action:  audit.EventAccountCreated,
		Subject: account.ID.String(),
		HFRID:   account.HFRID,
		IP:      requestcontext.ClientIP(ctx),
	})
	return account, nil
}

// Get returns an account by id. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, accountID string) (*models.Account, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, models.MessageAccountNotFound)
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, models.MessageAccountNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return account, nil
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}

// emit reports audit failures without failing the request; the account is
// already stored.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to record audit event",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func normalizeProfile(profile map[string]string) map[string]string {
	out := make(map[string]string, len(profile))
	for k, v := range profile {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
