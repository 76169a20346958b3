package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
)

// maxBodyBytes bounds a prediction request body.
const maxBodyBytes = 1 << 20

var errNotObject = errors.New(msgInvalidRequest)

// PredictionHandler serves the /predict routes.
type PredictionHandler struct {
	ndvi   *usecase.PredictNDVI
	change *usecase.PredictChange
	risk   *usecase.PredictRisk
	all    *usecase.PredictAll
	logger *slog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(
	ndvi *usecase.PredictNDVI,
	change *usecase.PredictChange,
	risk *usecase.PredictRisk,
	all *usecase.PredictAll,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		ndvi:   ndvi,
		change: change,
		risk:   risk,
		all:    all,
		logger: logger,
	}
}

// RegisterRoutes registers the prediction endpoints on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict/ndvi", h.PredictNDVI)
	mux.HandleFunc("POST /predict/change", h.PredictChange)
	mux.HandleFunc("POST /predict/risk", h.PredictRisk)
	mux.HandleFunc("POST /predict/all", h.PredictAll)
}

// PredictNDVI handles POST /predict/ndvi.
func (h *PredictionHandler) PredictNDVI(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.ndvi.Execute)
}

// PredictChange handles POST /predict/change.
func (h *PredictionHandler) PredictChange(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.change.Execute)
}

// PredictRisk handles POST /predict/risk.
func (h *PredictionHandler) PredictRisk(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.risk.Execute)
}

// PredictAll handles POST /predict/all.
func (h *PredictionHandler) PredictAll(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.all.Execute)
}

// serve decodes the body, runs exec and writes either its response or the
// 400 failure envelope.
func serve[T any](h *PredictionHandler, w http.ResponseWriter, r *http.Request, exec func(context.Context, dto.PredictRequest) (T, error)) {
	features, err := decodeFeatures(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WarnContext(r.Context(), "rejected prediction request",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidRequest})
		return
	}

	resp, err := exec(r.Context(), dto.PredictRequest{Features: features})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeFeatures accepts exactly one JSON object. Numbers are kept as
// json.Number so the echoed input reproduces the request.
func decodeFeatures(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}
