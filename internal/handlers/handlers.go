// Package handlers wires the HTTP surface onto the repositories. Every
// handler gates on the configured required headers and maps the error
// taxonomy onto status codes: validation 400, missing 404, unpublished
// or exhausted pin 403, anything else 500.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/models"
	"github.com/yms-edu/registrar/internal/school"
	"github.com/yms-edu/registrar/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, school.ErrUnpublished), errors.Is(err, app.ErrCardExhausted):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		logger.Error.Printf("ERROR: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// gate rejects requests missing the configured required headers.
func gate(service *app.Service, w http.ResponseWriter, r *http.Request) bool {
	if !service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the records you are looking for", http.StatusForbidden)
		return false
	}
	return true
}
