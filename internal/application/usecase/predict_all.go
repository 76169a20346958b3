package usecase

import (
	"context"
	"log/slog"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

// taskAll labels the combined prediction in spans, logs and metrics.
const taskAll = "all"

// PredictAll runs the three models on one request. Any failure fails the
// whole call.
type PredictAll struct {
	predictBase
}

// NewPredictAll creates a new PredictAll use case.
func NewPredictAll(engine Predictor, publisher port.EventPublisher, logger *slog.Logger) *PredictAll {
	return &PredictAll{predictBase: newPredictBase(engine, publisher, logger)}
}

// Execute returns all three results, the request timestamp and the echoed
// input features.
func (uc *PredictAll) Execute(ctx context.Context, req dto.PredictRequest) (dto.AllResponse, error) {
	ctx, span := uc.start(ctx, taskAll)
	defer span.End()

	p, defaulted, err := uc.engine.PredictAll(req.Features)
	uc.observe(ctx, span, taskAll, defaulted, err)
	if err != nil {
		return dto.AllResponse{}, err
	}
	uc.publish(ctx, p)

	return dto.FromPrediction(p, req.Features), nil
}
