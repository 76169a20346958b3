package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/postgres"
)

func newRunsCmd(a *app) *cobra.Command {
	var (
		limit       int
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded training runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("database-url") {
				databaseURL = a.cfg.DatabaseURL
			}
			if databaseURL == "" {
				return errors.New("no database configured: set DATABASE_URL or --database-url")
			}
			db, err := openRunsDB(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := usecase.NewListTrainingRuns(postgres.NewTrainingRunRepository(db)).Execute(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.out, "No training runs recorded.")
				return nil
			}
			renderRuns(a.out, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultRunLimit, "number of runs to show")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL DSN (overrides DATABASE_URL)")
	return cmd
}
