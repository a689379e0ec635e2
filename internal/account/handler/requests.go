package handler

// CreateAccountRequest is the body of POST /api/accounts.
type CreateAccountRequest struct {
	HFRID    string            `json:"hfrId"`
	Name     string            `json:"name"`
	Password string            `json:"password"`
	Profile  map[string]string `json:"profile"`
}
