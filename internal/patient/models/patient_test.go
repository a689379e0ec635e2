package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "netra/pkg/domain-errors"
)

var today = time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

func validRegistration() Registration {
	return Registration{
		FirstName:     " Kavya ",
		LastName:      "Nair",
		DOB:           "1993-04-18",
		Gender:        "FEMALE",
		Phone:         "98765 43210",
		Email:         "Kavya.Nair@Example.com",
		ContactPerson: "Ravi Nair",
		ContactPhone:  "+91-9123456780",
		AddressLine1:  "5 Temple Road",
		AddressLine2:  "Kochi, Kerala 682001",
		Aadhaar:       "1234 5678 9012",
	}
}

func TestNewPatientNormalizes(t *testing.T) {
	p, err := NewPatient("p-new", validRegistration(), today)
	require.NoError(t, err)

	assert.Equal(t, "Kavya Nair", p.Name)
	assert.Equal(t, "1993-04-18", p.DOB)
	assert.Equal(t, "Female", p.Gender)
	assert.Equal(t, "9876543210", p.Phone)
	assert.Equal(t, "kavya.nair@example.com", p.Email)
	assert.Equal(t, "+919123456780", p.ContactPhone)
	assert.Equal(t, "5 Temple Road, Kochi, Kerala 682001", p.Address)
	assert.Equal(t, "123456789012", p.Aadhaar)
}

func TestNewPatientOptionalSecondAddressLine(t *testing.T) {
	r := validRegistration()
	r.AddressLine2 = "   "
	p, err := NewPatient("p-new", r, today)
	require.NoError(t, err)
	assert.Equal(t, "5 Temple Road", p.Address)
}

func TestNewPatientValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(r *Registration)
		message string
	}{
		{"short first name", func(r *Registration) { r.FirstName = " K " }, MessageFirstNameRequired},
		{"blank last name", func(r *Registration) { r.LastName = "   " }, MessageLastNameRequired},
		{"missing dob", func(r *Registration) { r.DOB = "" }, MessageDOBRequired},
		{"malformed dob", func(r *Registration) { r.DOB = "18/04/1993" }, MessageDOBInvalid},
		{"future dob", func(r *Registration) { r.DOB = "2026-03-02" }, MessageDOBInvalid},
		{"unknown gender", func(r *Registration) { r.Gender = "x" }, MessageGenderInvalid},
		{"short phone", func(r *Registration) { r.Phone = "12345" }, MessagePhoneInvalid},
		{"letters in phone", func(r *Registration) { r.Phone = "98765abcde" }, MessagePhoneInvalid},
		{"bad email", func(r *Registration) { r.Email = "kavya@" }, MessageEmailInvalid},
		{"email without domain dot", func(r *Registration) { r.Email = "kavya@localhost" }, MessageEmailInvalid},
		{"display name email", func(r *Registration) { r.Email = "Kavya <kavya@example.com>" }, MessageEmailInvalid},
		{"missing contact", func(r *Registration) { r.ContactPerson = "" }, MessageContactPersonRequired},
		{"bad contact phone", func(r *Registration) { r.ContactPhone = "+" }, MessageContactPhoneInvalid},
		{"short address", func(r *Registration) { r.AddressLine1 = "5A" }, MessageAddressRequired},
		{"aadhaar too short", func(r *Registration) { r.Aadhaar = "12345678901" }, MessageAadhaarInvalid},
		{"aadhaar with letters", func(r *Registration) { r.Aadhaar = "12345678901X" }, MessageAadhaarInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRegistration()
			tc.mutate(&r)
			_, err := NewPatient("p-new", r, today)
			require.Error(t, err)
			de, ok := dErrors.As(err)
			require.True(t, ok)
			assert.Equal(t, dErrors.CodeValidation, de.Code)
			assert.Equal(t, tc.message, de.Message)
		})
	}
}

func TestDOBTodayIsAccepted(t *testing.T) {
	r := validRegistration()
	r.DOB = "2026-03-01"
	_, err := NewPatient("p-new", r, today)
	assert.NoError(t, err)
}

func TestMatchesText(t *testing.T) {
	p := Patient{Name: "Amit Verma", Email: "amit.verma@example.com", Phone: "9876543210", Address: "12 MG Road, Mumbai", DOB: "1985-06-12"}

	assert.True(t, p.MatchesText(""))
	assert.True(t, p.MatchesText("verma"))
	assert.True(t, p.MatchesText("98765"))
	assert.True(t, p.MatchesText("mumbai"))
	assert.False(t, p.MatchesText("1985"), "dob is not searchable")
}
