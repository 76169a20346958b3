package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error bodies shared by every route.
const (
	msgNotFound        = "Endpoint not found"
	msgInternal        = "Internal server error"
	msgInvalidRequest  = "Invalid request format"
	msgMetricsNotFound = "Model metrics not found"
	msgRateLimited     = "Rate limit exceeded"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// notFound answers every unmatched route.
func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}
