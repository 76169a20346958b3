package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "ML Model Server"

// HealthHandler provides HTTP health check endpoints for the ML server.
type HealthHandler struct {
	loaded    func() []string
	logger    *slog.Logger
	startTime time.Time
	expected  int
}

// NewHealthHandler creates a new health check handler. loaded lists the
// models currently able to serve; expected is how many there should be.
func NewHealthHandler(loaded func() []string, expected int, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		loaded:    loaded,
		expected:  expected,
		logger:    logger,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string   `json:"status"`
	Service string   `json:"service"`
	Models  []string `json:"models"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string   `json:"status"`
	Service string   `json:"service"`
	Uptime  string   `json:"uptime"`
	Models  []string `json:"models"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Health reports the loaded models. It is always 200: a server with missing
// artifacts is alive and answers per-call errors.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Models:  h.models(),
	})
}

// Readyz is 503 until every model is loaded.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	models := h.models()
	resp := ReadinessResponse{
		Status:  "ready",
		Service: ServiceName,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Models:  models,
	}
	status := http.StatusOK
	if len(models) < h.expected {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (h *HealthHandler) models() []string {
	models := h.loaded()
	if models == nil {
		models = []string{}
	}
	return models
}
