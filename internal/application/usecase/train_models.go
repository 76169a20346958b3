package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
)

// TrainModels fits every model, persists the artifacts and records the run.
type TrainModels struct {
	store  port.ArtifactStore
	runs   port.TrainingRunRepository
	logger *slog.Logger
	now    func() time.Time
	cfg    service.TrainerConfig
}

// NewTrainModels creates a new TrainModels use case. runs may be nil when
// no run history is kept.
func NewTrainModels(
	store port.ArtifactStore,
	runs port.TrainingRunRepository,
	cfg service.TrainerConfig,
	logger *slog.Logger,
) *TrainModels {
	return &TrainModels{
		store:  store,
		runs:   runs,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Execute trains on req.Table. A non-zero req.Seed replaces every model seed.
func (uc *TrainModels) Execute(ctx context.Context, req dto.TrainModelsRequest) (dto.TrainModelsResponse, error) {
	if req.Table == nil || req.Table.Rows() == 0 {
		return dto.TrainModelsResponse{}, errors.New("training table is empty")
	}

	cfg := uc.cfg
	if req.Seed != 0 {
		cfg.Seed = req.Seed
		cfg.NDVI.Seed = req.Seed
		cfg.Change.Seed = req.Seed
		cfg.Risk.Seed = req.Seed
	}

	run := model.TrainingRun{
		ID:          uuid.New(),
		StartedAt:   uc.now().UTC(),
		ArtifactDir: req.ArtifactDir,
		Seed:        cfg.Seed,
		Samples:     req.Table.Rows(),
	}
	uc.logger.InfoContext(ctx, "training models",
		slog.String("run_id", run.ID.String()),
		slog.Int("samples", run.Samples),
		slog.Uint64("seed", run.Seed),
	)

	result, err := service.NewTrainer(cfg).Train(req.Table)
	if err != nil {
		return dto.TrainModelsResponse{}, fmt.Errorf("failed to train models: %w", err)
	}

	if err := service.SaveRegistry(ctx, uc.store, result.Registry, result.Metrics); err != nil {
		return dto.TrainModelsResponse{}, fmt.Errorf("failed to save artifacts: %w", err)
	}

	run.Metrics = result.Metrics
	run.FinishedAt = uc.now().UTC()

	if uc.runs != nil {
		if err := uc.runs.Save(ctx, run); err != nil {
			return dto.TrainModelsResponse{}, fmt.Errorf("failed to record training run: %w", err)
		}
	}

	uc.logger.InfoContext(ctx, "models trained",
		slog.String("run_id", run.ID.String()),
		slog.Duration("duration", run.Duration()),
		slog.Float64("ndvi_r2", result.Metrics.NDVIPredictor.R2),
		slog.Float64("change_f1", result.Metrics.ChangeDetector.F1),
		slog.Float64("risk_accuracy", result.Metrics.RiskClassifier.Accuracy),
	)

	return dto.FromTrainingRun(run, result.Models), nil
}
