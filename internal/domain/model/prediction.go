package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/event"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/valueobject"
	"github.com/namitjain73/IPEC-Hackethon/pkg/events"
)

// ErrNonFinite is returned when a model produces NaN or an infinity.
var ErrNonFinite = errors.New("model output is not finite")

// NDVIForecast is the 7-day-ahead NDVI value, always within [0, 1].
type NDVIForecast struct {
	Value float64
}

// NewNDVIForecast clamps a raw regressor output into [0, 1].
func NewNDVIForecast(raw float64) (NDVIForecast, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return NDVIForecast{}, fmt.Errorf("ndvi forecast %v: %w", raw, ErrNonFinite)
	}
	return NDVIForecast{Value: clamp01(raw)}, nil
}

// ChangeDetection is the decoded change detector output.
type ChangeDetection struct {
	IsChange   bool
	Confidence float64
}

// NewChangeDetection decodes a [p(no change), p(change)] distribution. The
// confidence is always p(change), whichever class wins.
func NewChangeDetection(proba []float64) (ChangeDetection, error) {
	if len(proba) != 2 {
		return ChangeDetection{}, fmt.Errorf("change detection expects 2 class probabilities, got %d", len(proba))
	}
	class, _, err := argmax(proba)
	if err != nil {
		return ChangeDetection{}, err
	}
	return ChangeDetection{IsChange: class == 1, Confidence: clamp01(proba[1])}, nil
}

// Severity grades the detection.
func (c ChangeDetection) Severity() valueobject.Severity {
	return valueobject.SeverityFor(c.IsChange, c.Confidence)
}

// RiskAssessment is the decoded risk classifier output.
type RiskAssessment struct {
	Level      valueobject.RiskLevel
	Confidence float64
}

// NewRiskAssessment decodes a [p(low), p(medium), p(high)] distribution.
func NewRiskAssessment(proba []float64) (RiskAssessment, error) {
	if len(proba) != 3 {
		return RiskAssessment{}, fmt.Errorf("risk classification expects 3 class probabilities, got %d", len(proba))
	}
	class, conf, err := argmax(proba)
	if err != nil {
		return RiskAssessment{}, err
	}
	level, err := valueobject.RiskLevelFromCode(class)
	if err != nil {
		return RiskAssessment{}, err
	}
	return RiskAssessment{Level: level, Confidence: conf}, nil
}

// Prediction is the aggregate for one scoring request. Setting a result may
// record alert events for the caller to publish.
type Prediction struct {
	createdAt time.Time
	ndvi      *NDVIForecast
	change    *ChangeDetection
	risk      *RiskAssessment
	events.EventCollector
	id uuid.UUID
}

// NewPrediction starts an empty prediction stamped with now in UTC.
func NewPrediction(now time.Time) *Prediction {
	return &Prediction{id: uuid.New(), createdAt: now.UTC()}
}

// RecordNDVI stores the NDVI forecast.
func (p *Prediction) RecordNDVI(f NDVIForecast) {
	p.ndvi = &f
}

// RecordChange stores the change detection and raises ChangeDetected when
// the detection is high severity.
func (p *Prediction) RecordChange(c ChangeDetection) error {
	p.change = &c
	if c.Severity() != valueobject.SeverityHigh {
		return nil
	}
	e, err := event.NewChangeDetected(p.id, event.ChangeDetected{
		DetectedAt: p.createdAt,
		Severity:   string(c.Severity()),
		Confidence: c.Confidence,
	})
	if err != nil {
		return err
	}
	p.Record(e)
	return nil
}

// RecordRisk stores the risk assessment and raises HighRiskDetected for High.
func (p *Prediction) RecordRisk(r RiskAssessment) error {
	p.risk = &r
	if !r.Level.Equal(valueobject.RiskLevelHigh) {
		return nil
	}
	e, err := event.NewHighRiskDetected(p.id, event.HighRiskDetected{
		DetectedAt:     p.createdAt,
		RiskLabel:      r.Level.String(),
		ActionRequired: string(r.Level.ActionRequired()),
		Confidence:     r.Confidence,
		RiskLevel:      r.Level.Code(),
	})
	if err != nil {
		return err
	}
	p.Record(e)
	return nil
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID            { return p.id }
func (p *Prediction) CreatedAt() time.Time     { return p.createdAt }
func (p *Prediction) NDVI() *NDVIForecast      { return p.ndvi }
func (p *Prediction) Change() *ChangeDetection { return p.change }
func (p *Prediction) Risk() *RiskAssessment    { return p.risk }

func argmax(proba []float64) (int, float64, error) {
	best := 0
	for i, v := range proba {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("class %d probability %v: %w", i, v, ErrNonFinite)
		}
		if v > proba[best] {
			best = i
		}
	}
	return best, clamp01(proba[best]), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
