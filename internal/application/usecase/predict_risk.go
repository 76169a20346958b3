package usecase

import (
	"context"
	"log/slog"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

// PredictRisk classifies the vegetation risk level.
type PredictRisk struct {
	predictBase
}

// NewPredictRisk creates a new PredictRisk use case.
func NewPredictRisk(engine Predictor, publisher port.EventPublisher, logger *slog.Logger) *PredictRisk {
	return &PredictRisk{predictBase: newPredictBase(engine, publisher, logger)}
}

// Execute runs the risk classifier and publishes an alert for High risk.
func (uc *PredictRisk) Execute(ctx context.Context, req dto.PredictRequest) (dto.RiskResponse, error) {
	ctx, span := uc.start(ctx, feature.TaskRisk)
	defer span.End()

	r, defaulted, err := uc.engine.PredictRisk(req.Features)
	uc.observe(ctx, span, feature.TaskRisk, defaulted, err)
	if err != nil {
		return dto.RiskResponse{}, err
	}

	p := model.NewPrediction(uc.now())
	if err := p.RecordRisk(r); err != nil {
		return dto.RiskResponse{}, err
	}
	uc.publish(ctx, p)

	return dto.FromRisk(r), nil
}
