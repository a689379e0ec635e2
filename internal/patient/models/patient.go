package models

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	dErrors "netra/pkg/domain-errors"
)

// PageSize is the fixed number of patients per page.
const PageSize = 8

const (
	MessageRegistered      = "Patient registered successfully."
	MessageInvalidPage     = "Page must be a positive integer."
	MessagePatientNotFound = "Patient not found."
	MessageDuplicate       = "A patient with this Aadhaar number already exists."

	MessageFirstNameRequired     = "First name must be at least 2 characters."
	MessageLastNameRequired      = "Last name must be at least 2 characters."
	MessageDOBRequired           = "Date of birth is required."
	MessageDOBInvalid            = "Date of birth must be a past date in YYYY-MM-DD format."
	MessageGenderInvalid         = "Gender must be male, female or other."
	MessagePhoneInvalid          = "Enter a valid phone number."
	MessageEmailInvalid          = "Enter a valid email address."
	MessageContactPersonRequired = "Contact person must be at least 2 characters."
	MessageContactPhoneInvalid   = "Enter a valid contact phone number."
	MessageAddressRequired       = "Address line 1 must be at least 3 characters."
	MessageAadhaarInvalid        = "Aadhaar must be 12 digits."

	dateLayout     = "2006-01-02"
	minPhoneDigits = 10
	maxPhoneDigits = 15
	aadhaarDigits  = 12
)

// Patient is a person on the clinic's records page. DOB is an ISO calendar
// date. Aadhaar is kept for duplicate detection and never serialized.
type Patient struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson,omitempty"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	Aadhaar       string `json:"-"`
}

// MatchesText reports whether q occurs in the name, email, phone or address.
// q must already be lower-cased.
func (p Patient) MatchesText(q string) bool {
	if q == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{p.Name, p.Email, p.Phone, p.Address}, " "))
	return strings.Contains(haystack, q)
}

// Query selects one page of patients.
type Query struct {
	Text string
	Page int
}

// Page is one page of a filtered patient listing.
type Page struct {
	Patients   []Patient `json:"patients"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}

// Registration is the intake form for a new patient.
type Registration struct {
	FirstName     string
	LastName      string
	DOB           string
	Gender        string
	Phone         string
	Email         string
	ContactPerson string
	ContactPhone  string
	AddressLine1  string
	AddressLine2  string
	Aadhaar       string
}

// NewPatient validates r and builds a Patient. Fields are trimmed; the first
// invalid field is reported. today bounds the date of birth.
func NewPatient(id string, r Registration, today time.Time) (*Patient, error) {
	first := strings.TrimSpace(r.FirstName)
	if utf8.RuneCountInString(first) < 2 {
		return nil, invalid(MessageFirstNameRequired)
	}
	last := strings.TrimSpace(r.LastName)
	if utf8.RuneCountInString(last) < 2 {
		return nil, invalid(MessageLastNameRequired)
	}
	dob, err := parseDOB(r.DOB, today)
	if err != nil {
		return nil, err
	}
	gender, ok := normalizeGender(r.Gender)
	if !ok {
		return nil, invalid(MessageGenderInvalid)
	}
	phone, ok := normalizePhone(r.Phone)
	if !ok {
		return nil, invalid(MessagePhoneInvalid)
	}
	email, ok := normalizeEmail(r.Email)
	if !ok {
		return nil, invalid(MessageEmailInvalid)
	}
	contact := strings.TrimSpace(r.ContactPerson)
	if utf8.RuneCountInString(contact) < 2 {
		return nil, invalid(MessageContactPersonRequired)
	}
	contactPhone, ok := normalizePhone(r.ContactPhone)
	if !ok {
		return nil, invalid(MessageContactPhoneInvalid)
	}
	line1 := strings.TrimSpace(r.AddressLine1)
	if utf8.RuneCountInString(line1) < 3 {
		return nil, invalid(MessageAddressRequired)
	}
	aadhaar := strings.ReplaceAll(strings.TrimSpace(r.Aadhaar), " ", "")
	if len(aadhaar) != aadhaarDigits || !allDigits(aadhaar) {
		return nil, invalid(MessageAadhaarInvalid)
	}

	address := line1
	if line2 := strings.TrimSpace(r.AddressLine2); line2 != "" {
		address += ", " + line2
	}
	return &Patient{
		ID:            id,
		Name:          first + " " + last,
		DOB:           dob,
		Gender:        gender,
		Phone:         phone,
		Email:         email,
		Address:       address,
		ContactPerson: contact,
		ContactPhone:  contactPhone,
		Aadhaar:       aadhaar,
	}, nil
}

func invalid(msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg)
}

func parseDOB(raw string, today time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid(MessageDOBRequired)
	}
	dob, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", invalid(MessageDOBInvalid)
	}
	y, m, d := today.Date()
	if dob.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return "", invalid(MessageDOBInvalid)
	}
	return dob.Format(dateLayout), nil
}

func normalizeGender(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return "Male", true
	case "female":
		return "Female", true
	case "other":
		return "Other", true
	default:
		return "", false
	}
}

// normalizePhone strips separators and an optional leading +.
func normalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return "", false
		}
	}
	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", false
	}
	return b.String(), true
}

func normalizeEmail(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return "", false
	}
	return strings.ToLower(addr.Address), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
