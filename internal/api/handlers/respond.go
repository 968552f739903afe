package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adspiceprospice/Curiosity-Invoicing-sub000/internal/service"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrEditLocked),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPreconditionFailed):
		respondError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAssistantDisabled):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
