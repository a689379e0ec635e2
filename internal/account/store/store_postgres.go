package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"netra/internal/account/models"
	"netra/pkg/platform/sentinel"
)

// Schema creates the accounts table. Uniqueness of (clinic, name) is
// enforced case-insensitively by the index.
const Schema = `
CREATE TABLE IF NOT EXISTS clinic_accounts (
	id            UUID PRIMARY KEY,
	hfr_id        TEXT NOT NULL,
	clinic_name   TEXT NOT NULL,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	profile       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS clinic_accounts_clinic_name_key
	ON clinic_accounts (upper(hfr_id), lower(name));
`

const uniqueViolation = "23505"

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate accounts schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, account *models.Account) error {
	profile, err := marshalProfile(account.Profile)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO clinic_accounts (id, hfr_id, clinic_name, name, password_hash, profile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		account.ID,
		account.HFRID,
		account.ClinicName,
		account.Name,
		account.PasswordHash,
		profile,
		account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, hfr_id, clinic_name, name, password_hash, profile, created_at
		FROM clinic_accounts
		WHERE id = $1
	`
	var (
		account models.Account
		profile []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.HFRID,
		&account.ClinicName,
		&account.Name,
		&account.PasswordHash,
		&profile,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if err := json.Unmarshal(profile, &account.Profile); err != nil {
		return nil, fmt.Errorf("decode account profile: %w", err)
	}
	if len(account.Profile) == 0 {
		account.Profile = nil
	}
	return &account, nil
}

func marshalProfile(profile map[string]string) ([]byte, error) {
	if profile == nil {
		profile = map[string]string{}
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode account profile: %w", err)
	}
	return raw, nil
}
