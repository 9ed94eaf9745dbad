package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/rogo/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps service-layer errors onto HTTP responses. Backend
// errors keep their original status where one exists; transport failures
// surface as 502.
func WriteServiceError(w http.ResponseWriter, err error) error {
	var validation *models.ValidationError
	if errors.As(err, &validation) {
		return WriteError(w, http.StatusBadRequest, validation.Message)
	}

	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		body := map[string]interface{}{
			"status": "error",
			"error":  apiErr.Message,
		}
		if len(apiErr.FieldErrors) > 0 {
			body["field_errors"] = apiErr.FieldErrors
		}
		return WriteJSON(w, status, body)
	}

	if errors.Is(err, models.ErrSessionNotFound) {
		return WriteError(w, http.StatusNotFound, "Session not found")
	}

	return WriteError(w, http.StatusInternalServerError, err.Error())
}
