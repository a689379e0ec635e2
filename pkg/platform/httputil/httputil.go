// Package httputil renders JSON bodies and domain errors for handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "netra/pkg/domain-errors"
)

// InternalErrorMessage is the only text clients see for unexpected failures.
const InternalErrorMessage = "An internal server error occurred."

// ErrorResponse is the envelope for every non-2xx body.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a status and message envelope.
// Internal errors never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := InternalErrorMessage
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		status = dErrors.ToHTTPStatus(de.Code)
		msg = de.Message
	}
	WriteJSON(w, status, ErrorResponse{Message: msg})
}
