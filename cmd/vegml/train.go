package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/dto"
	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
	"github.com/namitjain73/IPEC-Hackethon/internal/dataset"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/artifact"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/postgres"
	pkgpostgres "github.com/namitjain73/IPEC-Hackethon/pkg/postgres"
)

func newTrainCmd(a *app) *cobra.Command {
	var (
		samples     int
		seed        uint64
		dataPath    string
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train all models and write their artifacts",
		Long: `Train the NDVI forecaster, the change detector and the risk classifier.

The training table is the synthetic series unless --data names a CSV file.
When a database URL is configured the run is recorded in training_runs.

Examples:
  vegml train                          # 30 synthetic days, seed 42
  vegml train --samples 365 --seed 7
  vegml train --data data/training/satellite_data.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			tbl, err := loadTable(dataPath, samples, seed)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("database-url") {
				databaseURL = a.cfg.DatabaseURL
			}
			var runs port.TrainingRunRepository
			if databaseURL != "" {
				db, err := openRunsDB(ctx, databaseURL)
				if err != nil {
					return err
				}
				defer db.Close()
				runs = postgres.NewTrainingRunRepository(db)
			}

			store := artifact.NewFileStore(a.cfg.ModelsDir)
			uc := usecase.NewTrainModels(store, runs, service.DefaultTrainerConfig(), a.logger)
			resp, err := uc.Execute(ctx, dto.TrainModelsRequest{
				Table:       tbl,
				ArtifactDir: store.Dir(),
				Seed:        seed,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Run %s: %d samples, artifacts in %s\n\n", resp.RunID, resp.Samples, store.Dir())
			renderModels(a.out, resp.Models)
			fmt.Fprintln(a.out)
			renderMetrics(a.out, resp.Metrics)
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", dataset.DefaultSamples, "synthetic series length in days")
	cmd.Flags().Uint64Var(&seed, "seed", dataset.DefaultSeed, "random seed for data generation, splits and models")
	cmd.Flags().StringVar(&dataPath, "data", "", "train on this CSV instead of synthetic data")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL DSN for run history (overrides DATABASE_URL)")
	return cmd
}

func loadTable(path string, samples int, seed uint64) (*dataset.Table, error) {
	if path == "" {
		return dataset.GenerateSynthetic(samples, seed), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training data: %w", err)
	}
	defer f.Close()

	tbl, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return tbl, nil
}

func openRunsDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if err := postgres.Migrate(dsn); err != nil {
		return nil, err
	}
	db, err := pkgpostgres.Open(ctx, pkgpostgres.Config{DSN: dsn, MaxOpenConns: 2})
	if err != nil {
		return nil, err
	}
	return db, nil
}
