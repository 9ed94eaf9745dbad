package models

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id is unknown to the store
var ErrSessionNotFound = errors.New("session not found")

// ValidationError is a local, pre-network rejection (empty question,
// wrong file type, oversized file). It never reaches the network layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FieldError describes one request field the backend rejected
type FieldError struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Kind     string `json:"kind"`
}

// APIError is the uniform error shape produced for every backend failure.
// Status 0 means no response was received (connection failure or timeout
// after the single retry was exhausted); otherwise it is the HTTP status.
type APIError struct {
	Status      int          `json:"status,omitempty"`
	Message     string       `json:"message"`
	Detail      string       `json:"detail,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Endpoint    string       `json:"endpoint,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend unreachable: %s (endpoint: %s)", e.Message, e.Endpoint)
	}
	return fmt.Sprintf("backend error: %s (status: %d, endpoint: %s)", e.Message, e.Status, e.Endpoint)
}

// IsRateLimited reports whether the backend returned 429
func (e *APIError) IsRateLimited() bool {
	return e.Status == 429
}

// AsAPIError unwraps err to an *APIError if possible
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsValidationError unwraps err to a *ValidationError if possible
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
