package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
	"github.com/namitjain73/IPEC-Hackethon/internal/dataset"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/artifact"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/messaging"
	"github.com/namitjain73/IPEC-Hackethon/internal/presentation/rest"
	"github.com/namitjain73/IPEC-Hackethon/pkg/observability"
	"github.com/namitjain73/IPEC-Hackethon/pkg/testutil"
)

var (
	trainOnce sync.Once
	trained   *service.TrainingResult
	trainErr  error
)

func trainedResult(t *testing.T) *service.TrainingResult {
	t.Helper()
	trainOnce.Do(func() {
		trained, trainErr = service.NewTrainer(testutil.FastTrainerConfig()).Train(dataset.GenerateSynthetic(90, dataset.DefaultSeed))
	})
	require.NoError(t, trainErr)
	return trained
}

type server struct {
	handler http.Handler
	store   port.ArtifactStore
}

func newServer(t *testing.T, reg *service.Registry, meter metric.Meter, metricsHandler http.Handler) server {
	t.Helper()
	logger := testutil.DiscardLogger()
	engine := service.NewEngine(reg)
	publisher := messaging.NewLogPublisher(logger)
	store := artifact.NewFileStore(t.TempDir())
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("test")
	}

	h := rest.Handlers{
		Health: rest.NewHealthHandler(engine.Loaded, 3, logger),
		Prediction: rest.NewPredictionHandler(
			usecase.NewPredictNDVI(engine, publisher, logger),
			usecase.NewPredictChange(engine, publisher, logger),
			usecase.NewPredictRisk(engine, publisher, logger),
			usecase.NewPredictAll(engine, publisher, logger),
			logger,
		),
		Models:  rest.NewModelsHandler(usecase.NewGetModelMetrics(store), logger),
		Metrics: metricsHandler,
	}
	return server{handler: rest.NewRouter(h, meter, logger), store: store}
}

func (s server) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

const fullInput = `{"ndvi":0.65,"ndvi_prev":0.7,"ndvi_change":-0.05,"red_band":0.25,"nir_band":0.50,
	"blue_band":0.15,"green_band":0.30,"cloud_cover":0.1,"temperature":25.5,"humidity":65.0}`

func TestHealth(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	rec, body := s.do(t, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ML Model Server", body["service"])
	assert.Equal(t, []any{"ndvi_predictor", "change_detector", "risk_classifier"}, body["models"])
}

func TestHealth_NoModels(t *testing.T) {
	s := newServer(t, &service.Registry{}, nil, nil)

	rec, body := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["models"])

	rec, body = s.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestPredictNDVI(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	rec, body := s.do(t, http.MethodPost, "/predict/ndvi",
		`{"ndvi_prev":0.7,"ndvi_change":-0.05,"red_band":0.25,"nir_band":0.50,"cloud_cover":0.1,"temperature":25.5,"humidity":65.0}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	forecast, ok := body["ndvi_forecast"].(float64)
	require.True(t, ok)
	testutil.AssertUnitInterval(t, forecast)
	assert.Equal(t, "normalized (0-1)", body["unit"])
	assert.Equal(t, "Higher values indicate healthier vegetation", body["interpretation"])
}

func TestPredictChange(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	rec, body := s.do(t, http.MethodPost, "/predict/change",
		`{"ndvi":0.6,"ndvi_prev":0.68,"ndvi_change":-0.08,"red_band":0.25,"nir_band":0.5,"cloud_cover":0.1,"temperature":25.5}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	detected, ok := body["change_detected"].(bool)
	require.True(t, ok)
	confidence := body["confidence"].(float64)
	testutil.AssertUnitInterval(t, confidence)
	// confidence is p(change), so it sits on the side of 0.5 the label picked
	if detected {
		assert.Greater(t, confidence, 0.5)
	} else {
		assert.LessOrEqual(t, confidence, 0.5)
	}

	want := "low"
	if detected && confidence > 0.8 {
		want = "high"
	}
	assert.Equal(t, want, body["severity"])
}

func TestPredictRisk(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	rec, body := s.do(t, http.MethodPost, "/predict/risk", fullInput)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	level := int(body["risk_level"].(float64))
	labels := map[int]string{0: "Low", 1: "Medium", 2: "High"}
	actions := map[int]string{0: "none", 1: "moderate", 2: "high"}
	require.Contains(t, labels, level)
	assert.Equal(t, labels[level], body["risk_label"])
	assert.Equal(t, actions[level], body["action_required"])
}

func TestPredictAll(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	rec, body := s.do(t, http.MethodPost, "/predict/all", fullInput)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])

	ts, ok := body["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)

	preds := body["predictions"].(map[string]any)
	forecast := preds["ndvi_forecast"].(float64)
	assert.False(t, math.IsNaN(forecast))
	assert.Contains(t, preds["change_detection"], "is_change")
	assert.Contains(t, preds["change_detection"], "confidence")
	assert.Contains(t, preds["risk_assessment"], "risk_label")

	input := body["input_features"].(map[string]any)
	assert.Equal(t, 25.5, input["temperature"])
	assert.Equal(t, 0.15, input["blue_band"])
}

func TestPredict_IsDeterministic(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	_, first := s.do(t, http.MethodPost, "/predict/risk", fullInput)
	_, second := s.do(t, http.MethodPost, "/predict/risk", fullInput)
	assert.Equal(t, first, second)
}

func TestPredict_ConcurrentRequests(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)
	paths := []string{"/predict/ndvi", "/predict/change", "/predict/risk", "/predict/all"}

	// timestamp is the only field allowed to differ between calls.
	stable := func(body []byte) map[string]any {
		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil
		}
		delete(out, "timestamp")
		return out
	}

	want := make(map[string]map[string]any, len(paths))
	for _, path := range paths {
		rec, _ := s.do(t, http.MethodPost, path, fullInput)
		require.Equal(t, http.StatusOK, rec.Code, path)
		want[path] = stable(rec.Body.Bytes())
		require.NotNil(t, want[path], path)
	}

	const workers = 16
	type result struct {
		path string
		code int
		body map[string]any
	}
	results := make(chan result, workers*len(paths))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := range paths {
				path := paths[(offset+i)%len(paths)]
				req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fullInput))
				req.Header.Set("Content-Type", "application/json")
				rec := httptest.NewRecorder()
				s.handler.ServeHTTP(rec, req)
				results <- result{path: path, code: rec.Code, body: stable(rec.Body.Bytes())}
			}
		}(w)
	}
	wg.Wait()
	close(results)

	count := 0
	for r := range results {
		count++
		assert.Equal(t, http.StatusOK, r.code, r.path)
		assert.Equal(t, want[r.path], r.body, r.path)
	}
	assert.Equal(t, workers*len(paths), count)
}

func TestPredict_MissingModel(t *testing.T) {
	full := trainedResult(t).Registry
	reg := &service.Registry{Scaler: full.Scaler, NDVI: full.NDVI, Change: full.Change}
	s := newServer(t, reg, nil, nil)

	for _, path := range []string{"/predict/risk", "/predict/all"} {
		rec, body := s.do(t, http.MethodPost, path, fullInput)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, false, body["success"], path)
		assert.Contains(t, body["error"], "model not loaded", path)
	}

	rec, _ := s.do(t, http.MethodPost, "/predict/ndvi", fullInput)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredict_BadRequests(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "not json", body: `{"ndvi":`, wantError: "Invalid request format"},
		{name: "array", body: `[1,2,3]`, wantError: "Invalid request format"},
		{name: "string", body: `"ndvi"`, wantError: "Invalid request format"},
		{name: "empty", body: ``, wantError: "Invalid request format"},
		{name: "two objects", body: `{} {}`, wantError: "Invalid request format"},
		{name: "non numeric", body: `{"ndvi_prev":"high"}`, wantError: "ndvi_prev"},
		{name: "nan string", body: `{"ndvi_prev":"NaN"}`, wantError: "ndvi_prev"},
		{name: "overflow", body: `{"ndvi_change":1e999}`, wantError: "ndvi_change"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := s.do(t, http.MethodPost, "/predict/ndvi", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
}

func TestPredict_EmptyObjectDefaults(t *testing.T) {
	s := newServer(t, trainedResult(t).Registry, nil, nil)

	rec, body := s.do(t, http.MethodPost, "/predict/ndvi", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestModelsInfo(t *testing.T) {
	s := newServer(t, &service.Registry{}, nil, nil)

	rec, body := s.do(t, http.MethodGet, "/models/info", "")

	require.Equal(t, http.StatusOK, rec.Code)
	models := body["models"].(map[string]any)
	assert.Len(t, models, 3)
	assert.Contains(t, body["accuracy"], "risk_classifier")
}

func TestModelsMetrics(t *testing.T) {
	res := trainedResult(t)
	s := newServer(t, res.Registry, nil, nil)

	rec, body := s.do(t, http.MethodGet, "/models/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Model metrics not found", body["error"])

	require.NoError(t, service.SaveJSON(context.Background(), s.store, port.ArtifactMetrics, res.Metrics))

	rec, body = s.do(t, http.MethodGet, "/models/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "ndvi_predictor")
	assert.Contains(t, body["ndvi_predictor"], "r2_score")
}

func TestNotFound(t *testing.T) {
	s := newServer(t, &service.Registry{}, nil, nil)

	rec, body := s.do(t, http.MethodGet, "/predict/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Endpoint not found"}, body)
}

func TestMetricsEndpoint(t *testing.T) {
	provider, handler, err := observability.InitMetrics(observability.MetricsConfig{
		Registry:    prometheus.NewRegistry(),
		ServiceName: "vegmld-test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	s := newServer(t, &service.Registry{}, provider.Meter("rest-test"), handler)
	s.do(t, http.MethodGet, "/health", "")

	rec, _ := s.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_server_requests")
	assert.Contains(t, rec.Body.String(), `http_route="GET /health"`)
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t, &service.Registry{}, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/predict/ndvi", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
