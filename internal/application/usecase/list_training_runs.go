package usecase

import (
	"context"
	"fmt"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

// DefaultRunLimit bounds ListTrainingRuns when no limit is given.
const DefaultRunLimit = 20

// ListTrainingRuns returns the recorded training history.
type ListTrainingRuns struct {
	runs port.TrainingRunRepository
}

// NewListTrainingRuns creates a new ListTrainingRuns use case.
func NewListTrainingRuns(runs port.TrainingRunRepository) *ListTrainingRuns {
	return &ListTrainingRuns{runs: runs}
}

// Execute lists up to limit runs, newest first. A limit <= 0 means
// DefaultRunLimit.
func (uc *ListTrainingRuns) Execute(ctx context.Context, limit int) ([]dto.TrainModelsResponse, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	runs, err := uc.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	out := make([]dto.TrainModelsResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.FromTrainingRun(r, nil))
	}
	return out, nil
}
