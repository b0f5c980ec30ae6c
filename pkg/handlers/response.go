package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse writes the engine's JSON error envelope and returns any
// encoding error. Every handler error path goes through here so clients see
// a uniform {"error", "message"} shape.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON encodes data as the JSON response body. A 200 status is left to
// the implicit WriteHeader on first write.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
