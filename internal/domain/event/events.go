package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/namitjain73/IPEC-Hackethon/pkg/events"
)

const (
	// EventTypeChangeDetected is emitted for a high severity vegetation change.
	EventTypeChangeDetected = "vegetation.change.detected"

	// EventTypeHighRiskDetected is emitted when a location is classified High risk.
	EventTypeHighRiskDetected = "vegetation.risk.high"

	// AggregateTypePrediction is the aggregate type carried by prediction events.
	AggregateTypePrediction = "Prediction"
)

// ChangeDetected is the payload of EventTypeChangeDetected.
type ChangeDetected struct {
	DetectedAt time.Time `json:"detected_at"`
	Severity   string    `json:"severity"`
	Confidence float64   `json:"confidence"`
}

// HighRiskDetected is the payload of EventTypeHighRiskDetected.
type HighRiskDetected struct {
	DetectedAt     time.Time `json:"detected_at"`
	RiskLabel      string    `json:"risk_label"`
	ActionRequired string    `json:"action_required"`
	Confidence     float64   `json:"confidence"`
	RiskLevel      int       `json:"risk_level"`
}

// NewChangeDetected builds the domain event for a prediction.
func NewChangeDetected(predictionID uuid.UUID, payload ChangeDetected) (events.DomainEvent, error) {
	return events.NewBaseEvent(EventTypeChangeDetected, predictionID, AggregateTypePrediction, payload)
}

// NewHighRiskDetected builds the domain event for a prediction.
func NewHighRiskDetected(predictionID uuid.UUID, payload HighRiskDetected) (events.DomainEvent, error) {
	return events.NewBaseEvent(EventTypeHighRiskDetected, predictionID, AggregateTypePrediction, payload)
}
