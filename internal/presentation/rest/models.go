package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

// ModelsInfoResponse is the static description served on /models/info.
type ModelsInfoResponse struct {
	Models   map[string]string `json:"models"`
	Accuracy map[string]string `json:"accuracy"`
}

var modelsInfo = ModelsInfoResponse{
	Models: map[string]string{
		feature.ModelNDVI:   "Gradient Boosted Regressor - Predicts NDVI values",
		feature.ModelChange: "Random Forest Classifier - Detects vegetation loss",
		feature.ModelRisk:   "Gradient Boosted Classifier - Classifies risk levels",
	},
	Accuracy: map[string]string{
		feature.ModelNDVI:   "R² Score ~0.85+",
		feature.ModelChange: "F1 Score ~0.90+",
		feature.ModelRisk:   "Accuracy ~0.92+",
	},
}

// ModelsHandler serves model metadata.
type ModelsHandler struct {
	metrics *usecase.GetModelMetrics
	logger  *slog.Logger
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(metrics *usecase.GetModelMetrics, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{metrics: metrics, logger: logger}
}

// RegisterRoutes registers the model endpoints on the provided ServeMux.
func (h *ModelsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /models/info", h.Info)
	mux.HandleFunc("GET /models/metrics", h.Metrics)
}

// Info handles GET /models/info.
func (h *ModelsHandler) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, modelsInfo)
}

// Metrics handles GET /models/metrics with the last training run's metrics.
func (h *ModelsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.metrics.Execute(r.Context())
	switch {
	case errors.Is(err, port.ErrArtifactNotFound):
		writeError(w, http.StatusNotFound, msgMetricsNotFound)
	case err != nil:
		h.logger.ErrorContext(r.Context(), "failed to load model metrics", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, msgInternal)
	default:
		writeJSON(w, http.StatusOK, m)
	}
}
