package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"semaphore.iot/internal/models"
)

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// RespondWithError sends a JSON error response using the APIError model.
// It sets the HTTP status code from the APIError and encodes the whole struct.
func RespondWithError(w http.ResponseWriter, apiErr models.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		log.Error().Err(err).Msg("failed to encode error response")
	}
}
