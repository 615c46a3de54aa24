package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const ErrorCodeInternal = "INTERNAL_SERVER_ERROR"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode"`
	Details   []string `json:"details"`
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
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes the structured error body. Details is never rendered as null.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message, errorCode string, details ...string) {
	if details == nil {
		details = []string{}
	}
	RespondJSON(w, logger, status, ErrorResponse{
		Message:   message,
		ErrorCode: errorCode,
		Details:   details,
	})
}
