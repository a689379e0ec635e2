package signup

import "netra/internal/clinic/models"

// Status names the phase of a license verification.
type Status string

const (
	StatusUnverified Status = "unverified"
	StatusVerifying  Status = "verifying"
	StatusVerified   Status = "verified"
	StatusFailed     Status = "failed"
)

// State is the verification state of a signup form. Exactly one of
// Unverified, Verifying, Verified or Failed.
type State interface {
	Status() Status
	isState()
}

// Unverified is the initial state and the state after any license edit.
type Unverified struct{}

// Verifying holds the ticket of the single in-flight verification.
type Verifying struct {
	Ticket Ticket
}

// Verified carries the clinic the license resolved to.
type Verified struct {
	Clinic models.ClinicRecord
}

// Failed carries the message shown to the user.
type Failed struct {
	Reason string
}

func (Unverified) Status() Status { return StatusUnverified }
func (Verifying) Status() Status  { return StatusVerifying }
func (Verified) Status() Status   { return StatusVerified }
func (Failed) Status() Status     { return StatusFailed }

func (Unverified) isState() {}
func (Verifying) isState()  {}
func (Verified) isState()   {}
func (Failed) isState()     {}

// Ticket identifies one verification request. Results are applied only
// while their ticket is the current one.
type Ticket struct {
	ID        uint64
	LicenseID string
}
