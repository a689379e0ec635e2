package models

// Client-facing messages for the verification flow.
const (
	MessageVerified        = "Clinic verified successfully."
	MessageIDRequired      = "HFR ID is required."
	MessageNotRecognized   = "Invalid HFR ID. This clinic is not recognized."
	MessageTooManyAttempts = "Too many failed verification attempts. Try again later."
)

// ClinicRecord is a verified clinic in the registry. Records are immutable
// once the registry is built.
type ClinicRecord struct {
	HFRID   string `json:"hfrId" yaml:"hfr_id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
}
