package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/event"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/valueobject"
)

func TestNewNDVIForecast_Clamps(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{raw: 0.62, want: 0.62},
		{raw: -0.3, want: 0},
		{raw: 1.7, want: 1},
		{raw: 0, want: 0},
		{raw: 1, want: 1},
	}
	for _, tt := range tests {
		f, err := NewNDVIForecast(tt.raw)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, f.Value, 1e-12)
	}
}

func TestNewNDVIForecast_NonFinite(t *testing.T) {
	_, err := NewNDVIForecast(math.NaN())
	assert.ErrorIs(t, err, ErrNonFinite)
	_, err = NewNDVIForecast(math.Inf(1))
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNewChangeDetection(t *testing.T) {
	c, err := NewChangeDetection([]float64{0.1, 0.9})
	require.NoError(t, err)
	assert.True(t, c.IsChange)
	assert.InDelta(t, 0.9, c.Confidence, 1e-12)
	assert.Equal(t, valueobject.SeverityHigh, c.Severity())

	c, err = NewChangeDetection([]float64{0.7, 0.3})
	require.NoError(t, err)
	assert.False(t, c.IsChange)
	assert.InDelta(t, 0.3, c.Confidence, 1e-12, "confidence is p(change) even when no change wins")
	assert.Equal(t, valueobject.SeverityLow, c.Severity())
}

func TestNewChangeDetection_ConfidenceIsPositiveClass(t *testing.T) {
	c, err := NewChangeDetection([]float64{0.9, 0.1})
	require.NoError(t, err)
	assert.False(t, c.IsChange)
	assert.InDelta(t, 0.1, c.Confidence, 1e-12)
	assert.Equal(t, valueobject.SeverityLow, c.Severity())
}

func TestNewChangeDetection_TieResolvesToFirstClass(t *testing.T) {
	c, err := NewChangeDetection([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.False(t, c.IsChange)
}

func TestNewChangeDetection_BadShape(t *testing.T) {
	_, err := NewChangeDetection([]float64{1})
	assert.Error(t, err)
}

func TestNewRiskAssessment(t *testing.T) {
	r, err := NewRiskAssessment([]float64{0.1, 0.2, 0.7})
	require.NoError(t, err)
	assert.Equal(t, valueobject.RiskLevelHigh, r.Level)
	assert.InDelta(t, 0.7, r.Confidence, 1e-12)

	_, err = NewRiskAssessment([]float64{0.5, 0.5})
	assert.Error(t, err)

	_, err = NewRiskAssessment([]float64{0.5, math.NaN(), 0.1})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestPrediction_RecordsAlertEvents(t *testing.T) {
	p := NewPrediction(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, p.RecordChange(ChangeDetection{IsChange: true, Confidence: 0.92}))
	require.NoError(t, p.RecordRisk(RiskAssessment{Level: valueobject.RiskLevelHigh, Confidence: 0.81}))

	assert.Equal(t, []string{event.EventTypeChangeDetected, event.EventTypeHighRiskDetected}, p.Types())
	for _, e := range p.Events() {
		assert.Equal(t, p.ID(), e.AggregateID())
	}

	var payload event.HighRiskDetected
	require.NoError(t, json.Unmarshal(p.Events()[1].Payload(), &payload))
	assert.Equal(t, 2, payload.RiskLevel)
	assert.Equal(t, "High", payload.RiskLabel)
	assert.Equal(t, "high", payload.ActionRequired)
}

func TestPrediction_NoEventsForRoutineResults(t *testing.T) {
	p := NewPrediction(time.Now())

	p.RecordNDVI(NDVIForecast{Value: 0.7})
	require.NoError(t, p.RecordChange(ChangeDetection{IsChange: true, Confidence: 0.6}))
	require.NoError(t, p.RecordRisk(RiskAssessment{Level: valueobject.RiskLevelMedium, Confidence: 0.9}))

	assert.Empty(t, p.Events())
	require.NotNil(t, p.NDVI())
	require.NotNil(t, p.Change())
	require.NotNil(t, p.Risk())
	assert.Equal(t, time.UTC, p.CreatedAt().Location())
}
