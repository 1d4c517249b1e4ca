package api

import (
	"encoding/json"
	"net/http"
)

// envelope is the JSON response shape used by every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError writes an error envelope. The message is chosen from the
// mapped status so that validation and permission failures read consistently
// across endpoints; other failures use the handler-supplied message.
func respondError(w http.ResponseWriter, failMessage string, err error) {
	status := httpStatusFromDomainError(err)
	message := failMessage
	switch status {
	case http.StatusBadRequest:
		message = "Validation failed"
	case http.StatusForbidden:
		message = "Access denied"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}
