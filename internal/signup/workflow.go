// Package signup implements the clinic signup form's verification workflow:
// a license id must resolve to a registered clinic before the account fields
// unlock and a submission can be made.
package signup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"netra/internal/clinic/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/httputil"
)

const (
	MessageEnterLicense      = "Please enter a License Key (HFR ID)."
	MessageInvalidLicense    = "Invalid License Key."
	MessageVerificationError = "An error occurred during verification."
	MessageNameRequired      = "Name is required."
	MessagePasswordRequired  = "Password is required."
)

// Verifier resolves a license id to a clinic. The clinic service and
// HTTPVerifier both satisfy it.
type Verifier interface {
	Verify(ctx context.Context, licenseID string) (*models.ClinicRecord, error)
}

// Workflow is the verification state machine behind one signup form.
// It is safe for concurrent use; results may be resolved from any goroutine.
type Workflow struct {
	mu       sync.Mutex
	license  string
	state    State
	lastID   uint64
	verifier Verifier
	creator  AccountCreator
	logger   *slog.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// New creates a workflow in the Unverified state.
func New(verifier Verifier, creator AccountCreator, opts ...Option) *Workflow {
	w := &Workflow{
		state:    Unverified{},
		verifier: verifier,
		creator:  creator,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) License() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.license
}

// ClinicName returns the resolved clinic name while Verified.
func (w *Workflow) ClinicName() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.state.(Verified); ok {
		return v.Clinic.Name, true
	}
	return "", false
}

// CanVerify reports whether the verify trigger is enabled.
func (w *Workflow) CanVerify() bool {
	switch w.State().(type) {
	case Unverified, Failed:
		return true
	default:
		return false
	}
}

// LicenseEditable reports whether EditLicense is accepted.
func (w *Workflow) LicenseEditable() bool {
	_, verifying := w.State().(Verifying)
	return !verifying
}

// FieldsEnabled reports whether the account fields accept input.
func (w *Workflow) FieldsEnabled() bool {
	_, ok := w.State().(Verified)
	return ok
}

// CanSubmit reports whether the account submit action is enabled.
func (w *Workflow) CanSubmit() bool {
	return w.FieldsEnabled()
}

// EditLicense replaces the license text. Any change collapses a Verified or
// Failed state back to Unverified. Edits are rejected while verifying.
func (w *Workflow) EditLicense(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.state.(Verifying); ok {
		return dErrors.New(dErrors.CodeInvalidState, "license cannot be edited while verification is in progress")
	}
	if text == w.license {
		return nil
	}
	w.license = text
	w.state = Unverified{}
	return nil
}

// BeginVerify moves the workflow to Verifying and returns the ticket the
// result must be resolved with.
func (w *Workflow) BeginVerify() (Ticket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state.(type) {
	case Unverified, Failed:
	default:
		return Ticket{}, dErrors.New(dErrors.CodeInvalidState, "verification is not available in state "+string(w.state.Status()))
	}

	licenseID := strings.TrimSpace(w.license)
	if licenseID == "" {
		return Ticket{}, dErrors.New(dErrors.CodeMissingInput, MessageEnterLicense)
	}

	w.lastID++
	ticket := Ticket{ID: w.lastID, LicenseID: licenseID}
	w.state = Verifying{Ticket: ticket}
	return ticket, nil
}

// Resolve applies a verification result. It returns false and leaves the
// state untouched when the ticket is no longer current.
func (w *Workflow) Resolve(ticket Ticket, clinic *models.ClinicRecord, err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	current, ok := w.state.(Verifying)
	if !ok || current.Ticket != ticket {
		return false
	}
	switch {
	case err != nil:
		w.state = Failed{Reason: failureReason(err)}
	case clinic == nil:
		w.state = Failed{Reason: MessageInvalidLicense}
	default:
		w.state = Verified{Clinic: *clinic}
	}
	return true
}

// Cancel abandons the in-flight verification, if any. Its result will be
// discarded when it arrives.
func (w *Workflow) Cancel() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.state.(Verifying); !ok {
		return false
	}
	w.state = Unverified{}
	return true
}

// Verify runs one verification end to end with the configured Verifier.
// When ctx ends first the attempt is cancelled and ctx.Err() returned.
func (w *Workflow) Verify(ctx context.Context) (State, error) {
	ticket, err := w.BeginVerify()
	if err != nil {
		return w.State(), err
	}

	clinic, verr := w.verifier.Verify(ctx, ticket.LicenseID)
	if ctxErr := ctx.Err(); ctxErr != nil {
		w.cancelTicket(ticket)
		return w.State(), ctxErr
	}
	w.Resolve(ticket, clinic, verr)

	state := w.State()
	if w.logger != nil {
		switch s := state.(type) {
		case Verified:
			w.logger.InfoContext(ctx, "clinic license verified", "hfr_id", s.Clinic.HFRID)
		case Failed:
			w.logger.WarnContext(ctx, "clinic license verification failed",
				"reason", s.Reason,
				"error", verr,
			)
		}
	}
	return state, nil
}

// Submit assembles an AccountSubmission from the verified form and hands it
// to the AccountCreator.
func (w *Workflow) Submit(ctx context.Context, name, password string, profile map[string]string) (*Receipt, error) {
	sub, err := w.submission(name, password, profile)
	if err != nil {
		return nil, err
	}
	if w.creator == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "no account creator configured")
	}
	receipt, err := w.creator.CreateAccount(ctx, sub)
	if err != nil {
		if w.logger != nil {
			w.logger.WarnContext(ctx, "account submission failed", "hfr_id", sub.licenseID, "error", err)
		}
		return nil, err
	}
	return receipt, nil
}

func (w *Workflow) submission(name, password string, profile map[string]string) (AccountSubmission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	verified, ok := w.state.(Verified)
	if !ok {
		return AccountSubmission{}, dErrors.New(dErrors.CodeInvalidState, "account submission requires a verified license")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return AccountSubmission{}, dErrors.New(dErrors.CodeMissingInput, MessageNameRequired)
	}
	if password == "" {
		return AccountSubmission{}, dErrors.New(dErrors.CodeMissingInput, MessagePasswordRequired)
	}
	return AccountSubmission{
		licenseID:  verified.Clinic.HFRID,
		clinicName: verified.Clinic.Name,
		name:       name,
		password:   password,
		profile:    cloneProfile(profile),
	}, nil
}

func (w *Workflow) cancelTicket(ticket Ticket) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if current, ok := w.state.(Verifying); ok && current.Ticket == ticket {
		w.state = Unverified{}
	}
}

func failureReason(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return rejected.Message
		}
		return MessageInvalidLicense
	}
	if de, ok := dErrors.As(err); ok {
		if de.Code == dErrors.CodeInternal {
			return httputil.InternalErrorMessage
		}
		if de.Message != "" {
			return de.Message
		}
		return MessageInvalidLicense
	}
	return MessageVerificationError
}

func cloneProfile(profile map[string]string) map[string]string {
	if len(profile) == 0 {
		return nil
	}
	out := make(map[string]string, len(profile))
	for k, v := range profile {
		out[strings.TrimSpace(k)] = v
	}
	return out
}
