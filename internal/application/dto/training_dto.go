package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/namitjain73/IPEC-Hackethon/internal/dataset"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
)

// TrainModelsRequest is the input DTO for the TrainModels use case.
type TrainModelsRequest struct {
	Table       *dataset.Table
	ArtifactDir string
	Seed        uint64
}

// ModelSummaryDTO describes one trained model.
type ModelSummaryDTO struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	TrainRows int    `json:"train_rows"`
	TestRows  int    `json:"test_rows"`
}

// TrainModelsResponse is the output DTO returned after training.
type TrainModelsResponse struct {
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Models     []ModelSummaryDTO     `json:"models"`
	Metrics    model.TrainingMetrics `json:"metrics"`
	Samples    int                   `json:"samples"`
	RunID      uuid.UUID             `json:"run_id"`
}

// EvaluateModelsResponse is the output DTO of EvaluateModels.
type EvaluateModelsResponse struct {
	Report  model.EvaluationReport `json:"report"`
	Missing []string               `json:"missing,omitempty"`
}

// FromTrainingRun maps a finished run and its model summaries to the response.
func FromTrainingRun(run model.TrainingRun, models []service.ModelSummary) TrainModelsResponse {
	out := TrainModelsResponse{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Samples:    run.Samples,
		Metrics:    run.Metrics,
		Models:     make([]ModelSummaryDTO, 0, len(models)),
	}
	for _, m := range models {
		out.Models = append(out.Models, ModelSummaryDTO{
			Name:      m.Name,
			Kind:      m.Kind,
			TrainRows: m.TrainRows,
			TestRows:  m.TestRows,
		})
	}
	return out
}
