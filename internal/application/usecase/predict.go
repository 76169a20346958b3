package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
)

const instrumentationName = "github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"

// Predictor is the inference engine as seen by the prediction use cases.
// *service.Engine implements it.
type Predictor interface {
	PredictNDVI(input map[string]any) (model.NDVIForecast, []string, error)
	PredictChange(input map[string]any) (model.ChangeDetection, []string, error)
	PredictRisk(input map[string]any) (model.RiskAssessment, []string, error)
	PredictAll(input map[string]any) (*model.Prediction, []string, error)
}

// predictBase carries what every prediction use case shares.
type predictBase struct {
	engine    Predictor
	publisher port.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
	counter   metric.Int64Counter
	now       func() time.Time
}

func newPredictBase(engine Predictor, publisher port.EventPublisher, logger *slog.Logger) predictBase {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"vegml.predictions",
		metric.WithDescription("Predictions served, by task and outcome."),
	)
	if err != nil {
		logger.Warn("prediction counter unavailable", "error", err)
		counter = noop.Int64Counter{}
	}
	return predictBase{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		counter:   counter,
		now:       time.Now,
	}
}

func (b *predictBase) start(ctx context.Context, task feature.Task) (context.Context, trace.Span) {
	return b.tracer.Start(ctx, "predict "+task.String(), trace.WithAttributes(
		attribute.String("vegml.task", task.String()),
	))
}

// observe logs defaulted fields and records the outcome on the span and the
// prediction counter.
func (b *predictBase) observe(ctx context.Context, span trace.Span, task feature.Task, defaulted []string, err error) {
	if len(defaulted) > 0 {
		b.logger.WarnContext(ctx, "missing input fields defaulted to 0.0",
			slog.String("task", task.String()),
			slog.Any("fields", defaulted),
		)
		span.SetAttributes(attribute.StringSlice("vegml.defaulted_fields", defaulted))
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.WarnContext(ctx, "prediction failed",
			slog.String("task", task.String()),
			slog.String("error", err.Error()),
		)
	}
	b.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("task", task.String()),
		attribute.String("outcome", outcome),
	))
}

// publish drains the prediction's events. Publish failures are logged and
// never fail the prediction.
func (b *predictBase) publish(ctx context.Context, p *model.Prediction) {
	evts := p.ClearEvents()
	if len(evts) == 0 || b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, evts...); err != nil {
		b.logger.ErrorContext(ctx, "failed to publish prediction events",
			slog.String("prediction_id", p.ID().String()),
			slog.Int("events", len(evts)),
			slog.String("error", err.Error()),
		)
	}
}
