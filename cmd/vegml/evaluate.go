package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/artifact"
)

func newEvaluateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Write evaluation_report.json from the trained artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := artifact.NewFileStore(a.cfg.ModelsDir)
			resp, err := usecase.NewEvaluateModels(store, a.logger).Execute(cmd.Context())
			if err != nil {
				return err
			}

			if resp.Report.Metrics != nil {
				renderMetrics(a.out, *resp.Report.Metrics)
			}
			for _, name := range sortedKeys(resp.Report.FeatureImportance) {
				fmt.Fprintf(a.out, "\nFeature importance: %s\n", name)
				renderImportance(a.out, resp.Report.FeatureImportance[name])
			}
			for _, name := range resp.Missing {
				fmt.Fprintf(a.out, "\n%s: not loaded, skipped\n", name)
			}
			fmt.Fprintf(a.out, "\nReport written to %s/evaluation_report.json\n", store.Dir())
			return nil
		},
	}
}
