package rest

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Prediction *PredictionHandler
	Models     *ModelsHandler
	// Metrics serves the Prometheus exposition on GET /metrics. Optional.
	Metrics http.Handler
	// RateLimit throttles prediction requests when set.
	RateLimit *rate.Limiter
}

// NewRouter builds the HTTP API. Unmatched routes answer the 404 envelope.
func NewRouter(h Handlers, meter metric.Meter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Health.RegisterRoutes(mux)
	h.Prediction.RegisterRoutes(mux)
	h.Models.RegisterRoutes(mux)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}
	mux.HandleFunc("/", notFound)

	var handler http.Handler = mux
	if h.RateLimit != nil {
		handler = RateLimitMiddleware(h.RateLimit)(handler)
	}
	handler = RecoverMiddleware(logger)(handler)
	handler = MetricsMiddleware(meter, logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	return CORSMiddleware(handler)
}
