package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/namitjain73/IPEC-Hackethon/internal/dataset"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		samples int
		seed    uint64
		out     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the synthetic training series as CSV",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create %s: %w", filepath.Dir(out), err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			tbl := dataset.GenerateSynthetic(samples, seed)
			if err := dataset.WriteCSV(f, tbl); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			a.logger.Info("synthetic data written", "path", out, "rows", tbl.Rows())
			fmt.Fprintf(a.out, "Wrote %d rows to %s\n", tbl.Rows(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", dataset.DefaultSamples, "series length in days")
	cmd.Flags().Uint64Var(&seed, "seed", dataset.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&out, "out", filepath.Join("data", "training", "satellite_data.csv"), "output CSV path")
	return cmd
}
