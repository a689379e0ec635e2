package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "netra/pkg/domain-errors"
)

const (
	MessageCreated          = "Account created successfully."
	MessageNameRequired     = "Name is required."
	MessageNameTooLong      = "Name must be at most 128 characters."
	MessagePasswordTooShort = "Password must be at least 8 characters."
	MessageDuplicate        = "An account with this name already exists for this clinic."
	MessageAccountNotFound  = "Account not found."

	MaxNameLength     = 128
	MinPasswordLength = 8
	MaxProfileFields  = 32
)

// Account is a clinic user created after license verification.
//
// Invariants:
//   - HFRID is the registry's canonical id of a verified clinic
//   - Name is non-empty and at most 128 characters
//   - (HFRID, Name) is unique case-insensitively
//   - PasswordHash is a bcrypt hash and never serialized
type Account struct {
	ID           uuid.UUID         `json:"id"`
	HFRID        string            `json:"hfrId"`
	ClinicName   string            `json:"clinicName"`
	Name         string            `json:"name"`
	PasswordHash string            `json:"-"`
	Profile      map[string]string `json:"profile,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// NewAccount validates and builds an Account. The password hash is set by
// the caller once the plaintext has been validated.
func NewAccount(id uuid.UUID, hfrID, clinicName, name string, profile map[string]string, now time.Time) (*Account, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if len(profile) > MaxProfileFields {
		return nil, dErrors.New(dErrors.CodeValidation, "Too many profile fields.")
	}
	return &Account{
		ID:         id,
		HFRID:      hfrID,
		ClinicName: clinicName,
		Name:       name,
		Profile:    profile,
		CreatedAt:  now,
	}, nil
}

func ValidateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, MessageNameRequired)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return dErrors.New(dErrors.CodeValidation, MessageNameTooLong)
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, MessagePasswordTooShort)
	}
	return nil
}

// NameKey is the case-folded uniqueness key for an account.
func NameKey(hfrID, name string) string {
	return strings.ToUpper(hfrID) + "|" + strings.ToLower(name)
}
