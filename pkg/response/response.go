// Package response writes the JSON envelope shared by every endpoint:
// {"status":..., "message":..., "data":..., "errors":...}.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Write sends body with the given status.
func Write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data any) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data any) {
	Write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Status: status, Message: message})
}

// ErrorWith sends a JSON error response carrying details in errors.
func ErrorWith(w http.ResponseWriter, status int, message string, details any) {
	Write(w, status, Envelope{Status: status, Message: message, Errors: details})
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	ErrorWith(w, http.StatusUnprocessableEntity, "Validation failed", errs)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
