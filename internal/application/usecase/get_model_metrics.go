package usecase

import (
	"context"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
)

// GetModelMetrics returns the metrics recorded by the last training run.
type GetModelMetrics struct {
	store port.ArtifactStore
}

// NewGetModelMetrics creates a new GetModelMetrics use case.
func NewGetModelMetrics(store port.ArtifactStore) *GetModelMetrics {
	return &GetModelMetrics{store: store}
}

// Execute returns port.ErrArtifactNotFound (wrapped or bare) when no
// training run has written metrics yet.
func (uc *GetModelMetrics) Execute(ctx context.Context) (model.TrainingMetrics, error) {
	return service.LoadMetrics(ctx, uc.store)
}
