package handler

import "netra/internal/patient/models"

// RegisterPatientRequest mirrors the person intake form.
type RegisterPatientRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contactPerson"`
	ContactPhone  string `json:"contactPhone"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2"`
	Aadhaar       string `json:"aadhaar"`
}

func (r RegisterPatientRequest) toRegistration() models.Registration {
	return models.Registration{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		DOB:           r.DOB,
		Gender:        r.Gender,
		Phone:         r.Phone,
		Email:         r.Email,
		ContactPerson: r.ContactPerson,
		ContactPhone:  r.ContactPhone,
		AddressLine1:  r.AddressLine1,
		AddressLine2:  r.AddressLine2,
		Aadhaar:       r.Aadhaar,
	}
}

type RegisterPatientResponse struct {
	Message string          `json:"message"`
	Patient *models.Patient `json:"patient"`
}

type GetPatientResponse struct {
	Patient *models.Patient `json:"patient"`
}
