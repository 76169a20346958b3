// Command vegml trains, evaluates and inspects the vegetation models served
// by vegmld.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/config"
	"github.com/namitjain73/IPEC-Hackethon/pkg/observability"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries what every subcommand shares.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: stdout}
	var modelsDir, logLevel string

	root := &cobra.Command{
		Use:           "vegml",
		Short:         "Train and evaluate the vegetation ML models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("models-dir") {
				cfg.ModelsDir = modelsDir
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.logger = observability.InitLogger(observability.LogConfig{
				Output:  stderr,
				Level:   observability.LevelForDebug(cfg.LogLevel, cfg.Debug),
				Format:  "text",
				Service: "vegml",
			})
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&modelsDir, "models-dir", "models", "artifact directory (overrides MODELS_DIR)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newTrainCmd(a),
		newEvaluateCmd(a),
		newGenerateCmd(a),
		newRunsCmd(a),
		newCertsCmd(a),
	)
	return root
}
