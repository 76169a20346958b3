package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/namitjain73/IPEC-Hackethon/internal/domain/model"
	pkgpostgres "github.com/namitjain73/IPEC-Hackethon/pkg/postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the training_runs schema.
func Migrate(dsn string) error {
	return pkgpostgres.RunMigrations(dsn, migrations, "migrations")
}

// TrainingRunRepository implements port.TrainingRunRepository using PostgreSQL.
type TrainingRunRepository struct {
	db *sqlx.DB
}

// NewTrainingRunRepository creates a new PostgreSQL-backed TrainingRunRepository.
func NewTrainingRunRepository(db *sqlx.DB) *TrainingRunRepository {
	return &TrainingRunRepository{db: db}
}

type trainingRunRow struct {
	StartedAt   time.Time `db:"started_at"`
	FinishedAt  time.Time `db:"finished_at"`
	ArtifactDir string    `db:"artifact_dir"`
	Metrics     []byte    `db:"metrics"`
	Seed        int64     `db:"seed"`
	Samples     int       `db:"samples"`
	ID          uuid.UUID `db:"id"`
}

const selectTrainingRunSQL = `
	SELECT id, started_at, finished_at, artifact_dir, seed, samples, metrics
	FROM training_runs
	ORDER BY started_at DESC
`

// Save inserts a finished run.
func (r *TrainingRunRepository) Save(ctx context.Context, run model.TrainingRun) error {
	metrics, err := json.Marshal(run.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	row := trainingRunRow{
		ID:          run.ID,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		ArtifactDir: run.ArtifactDir,
		Seed:        int64(run.Seed),
		Samples:     run.Samples,
		Metrics:     metrics,
	}

	const insertSQL = `
		INSERT INTO training_runs (id, started_at, finished_at, artifact_dir, seed, samples, metrics)
		VALUES (:id, :started_at, :finished_at, :artifact_dir, :seed, :samples, :metrics)
	`
	return pkgpostgres.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertSQL, row); err != nil {
			return fmt.Errorf("failed to insert training run: %w", err)
		}
		return nil
	})
}

// Latest returns the most recent run, or nil when none was recorded.
func (r *TrainingRunRepository) Latest(ctx context.Context) (*model.TrainingRun, error) {
	var row trainingRunRow
	err := r.db.GetContext(ctx, &row, selectTrainingRunSQL+" LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest training run: %w", err)
	}
	run, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns up to limit runs, newest first.
func (r *TrainingRunRepository) List(ctx context.Context, limit int) ([]model.TrainingRun, error) {
	var rows []trainingRunRow
	if err := r.db.SelectContext(ctx, &rows, selectTrainingRunSQL+" LIMIT $1", limit); err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	runs := make([]model.TrainingRun, 0, len(rows))
	for _, row := range rows {
		run, err := row.toModel()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (row trainingRunRow) toModel() (model.TrainingRun, error) {
	run := model.TrainingRun{
		ID:          row.ID,
		StartedAt:   row.StartedAt,
		FinishedAt:  row.FinishedAt,
		ArtifactDir: row.ArtifactDir,
		Seed:        uint64(row.Seed),
		Samples:     row.Samples,
	}
	if err := json.Unmarshal(row.Metrics, &run.Metrics); err != nil {
		return model.TrainingRun{}, fmt.Errorf("failed to decode metrics of run %s: %w", row.ID, err)
	}
	return run, nil
}
