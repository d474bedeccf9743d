package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an error response using the canonical `{"error": ...}` shape.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// WriteError maps an error onto the canonical error response. AppError values
// carry their own status and message; anything else is reported as a generic
// internal failure so store details never leak to the caller.
func WriteError(w http.ResponseWriter, err error) {
	if err == nil {
		JSONError(w, http.StatusInternalServerError, "unknown error")
		return
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		message := appErr.Message
		if message == "" {
			message = "request failed"
		}
		JSONError(w, status, message)
		return
	}
	JSONError(w, http.StatusInternalServerError, "internal server error")
}
