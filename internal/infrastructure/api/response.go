package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// isoMillis matches JavaScript's Date.prototype.toISOString
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the error body of the OAuth and installation routes
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// RelayResponse acknowledges an event posted to the relay.
// EventName echoes the posted value as sent and is omitted when the body had none.
type RelayResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	EventName json.RawMessage `json:"eventName,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, title string, err error, logger zerolog.Logger) {
	writeJSON(w, status, ErrorResponse{
		Error:     title,
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(isoMillis),
	}, logger)
}
