package port

import (
	"context"
	"errors"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/pkg/events"
)

// ErrArtifactNotFound is returned by an ArtifactStore for an absent artifact.
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact names.
const (
	ArtifactScaler           = "scaler"
	ArtifactMetrics          = "metrics"
	ArtifactEvaluationReport = "evaluation_report"
)

// ArtifactStore persists opaque training artifacts by name.
type ArtifactStore interface {
	// Save writes or overwrites the named artifact.
	Save(ctx context.Context, name string, data []byte) error

	// Load reads the named artifact or returns ErrArtifactNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// TrainingRunRepository keeps the history of training runs.
type TrainingRunRepository interface {
	Save(ctx context.Context, run model.TrainingRun) error
	Latest(ctx context.Context) (*model.TrainingRun, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]model.TrainingRun, error)
}
