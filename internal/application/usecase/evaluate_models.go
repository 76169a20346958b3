package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
)

// EvaluateModels builds the evaluation report from stored artifacts.
type EvaluateModels struct {
	store  port.ArtifactStore
	logger *slog.Logger
}

// NewEvaluateModels creates a new EvaluateModels use case.
func NewEvaluateModels(store port.ArtifactStore, logger *slog.Logger) *EvaluateModels {
	return &EvaluateModels{store: store, logger: logger}
}

// Execute reads the training metrics, ranks the classifier features and
// writes evaluation_report. Classifiers that fail to load are skipped and
// listed as missing, as is an absent metrics artifact.
func (uc *EvaluateModels) Execute(ctx context.Context) (dto.EvaluateModelsResponse, error) {
	var missing []string
	var metrics *model.TrainingMetrics
	m, err := service.LoadMetrics(ctx, uc.store)
	switch {
	case err == nil:
		metrics = &m
	case errors.Is(err, port.ErrArtifactNotFound):
		uc.logger.WarnContext(ctx, "metrics unavailable for evaluation", slog.String("error", err.Error()))
		missing = append(missing, port.ArtifactMetrics)
	default:
		return dto.EvaluateModelsResponse{}, fmt.Errorf("failed to load metrics: %w", err)
	}

	reg, problems := service.LoadRegistry(ctx, uc.store)
	for _, name := range []string{feature.ModelChange, feature.ModelRisk} {
		if err, ok := problems[name]; ok {
			uc.logger.WarnContext(ctx, "model unavailable for evaluation",
				slog.String("model", name),
				slog.String("error", err.Error()),
			)
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)

	report := model.EvaluationReport{
		Metrics:           metrics,
		FeatureImportance: service.FeatureImportance(reg),
	}
	if err := service.SaveJSON(ctx, uc.store, port.ArtifactEvaluationReport, report); err != nil {
		return dto.EvaluateModelsResponse{}, fmt.Errorf("failed to save evaluation report: %w", err)
	}

	return dto.EvaluateModelsResponse{Report: report, Missing: missing}, nil
}
