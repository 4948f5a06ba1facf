// Package web holds JSON response helpers and HTTP middleware shared by the transport layer.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// MessageResponse is the body rendered for every failed request.
type MessageResponse struct {
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		RespondMessage(w, logger, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondMessage writes {"message": message} with the given status.
func RespondMessage(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, MessageResponse{Message: message})
}

// RespondEmpty writes a status line without a body.
func RespondEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}
