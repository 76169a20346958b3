package usecase

import (
	"context"
	"log/slog"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

// PredictChange detects vegetation change and alerts on high severity.
type PredictChange struct {
	predictBase
}

// NewPredictChange creates a new PredictChange use case.
func NewPredictChange(engine Predictor, publisher port.EventPublisher, logger *slog.Logger) *PredictChange {
	return &PredictChange{predictBase: newPredictBase(engine, publisher, logger)}
}

// Execute runs the change detector and publishes any resulting alert.
func (uc *PredictChange) Execute(ctx context.Context, req dto.PredictRequest) (dto.ChangeResponse, error) {
	ctx, span := uc.start(ctx, feature.TaskChange)
	defer span.End()

	c, defaulted, err := uc.engine.PredictChange(req.Features)
	uc.observe(ctx, span, feature.TaskChange, defaulted, err)
	if err != nil {
		return dto.ChangeResponse{}, err
	}

	p := model.NewPrediction(uc.now())
	if err := p.RecordChange(c); err != nil {
		return dto.ChangeResponse{}, err
	}
	uc.publish(ctx, p)

	return dto.FromChange(c), nil
}
