package usecase

import (
	"context"
	"log/slog"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

// PredictNDVI forecasts the 7-day-ahead NDVI.
type PredictNDVI struct {
	predictBase
}

// NewPredictNDVI creates a new PredictNDVI use case.
func NewPredictNDVI(engine Predictor, publisher port.EventPublisher, logger *slog.Logger) *PredictNDVI {
	return &PredictNDVI{predictBase: newPredictBase(engine, publisher, logger)}
}

// Execute runs the NDVI forecaster on the request features.
func (uc *PredictNDVI) Execute(ctx context.Context, req dto.PredictRequest) (dto.NDVIResponse, error) {
	ctx, span := uc.start(ctx, feature.TaskNDVI)
	defer span.End()

	f, defaulted, err := uc.engine.PredictNDVI(req.Features)
	uc.observe(ctx, span, feature.TaskNDVI, defaulted, err)
	if err != nil {
		return dto.NDVIResponse{}, err
	}
	return dto.FromNDVI(f), nil
}
