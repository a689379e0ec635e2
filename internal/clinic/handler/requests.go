package handler

// VerifyClinicRequest is the body of POST /api/verify-clinic.
// A JSON null or absent hfrId decodes to the empty string.
type VerifyClinicRequest struct {
	HFRID string `json:"hfrId"`
}
