package signup

import (
	"context"
	"encoding/json"
	"maps"
)

// AccountSubmission is the account payload assembled from a verified form.
// It can only be built by a Workflow in the Verified state. The zero value
// is invalid and is refused by Client.CreateAccount.
type AccountSubmission struct {
	licenseID  string
	clinicName string
	name       string
	password   string
	profile    map[string]string
}

func (s AccountSubmission) LicenseID() string  { return s.licenseID }
func (s AccountSubmission) ClinicName() string { return s.clinicName }
func (s AccountSubmission) Name() string       { return s.name }
func (s AccountSubmission) Password() string   { return s.password }

// IsZero reports whether s was not produced by a Workflow.
func (s AccountSubmission) IsZero() bool { return s.licenseID == "" }

// Profile returns a copy of the optional profile fields.
func (s AccountSubmission) Profile() map[string]string {
	return maps.Clone(s.profile)
}

// MarshalJSON renders the body accepted by POST /api/accounts.
func (s AccountSubmission) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		HFRID    string            `json:"hfrId"`
		Name     string            `json:"name"`
		Password string            `json:"password"`
		Profile  map[string]string `json:"profile,omitempty"`
	}{
		HFRID:    s.licenseID,
		Name:     s.name,
		Password: s.password,
		Profile:  s.profile,
	})
}

// Receipt acknowledges a created account.
type Receipt struct {
	AccountID string
	Message   string
}

// AccountCreator receives submissions from a verified workflow.
type AccountCreator interface {
	CreateAccount(ctx context.Context, sub AccountSubmission) (*Receipt, error)
}
