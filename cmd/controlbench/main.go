package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bioedlabs/controlbench/internal/config"
	"github.com/bioedlabs/controlbench/internal/logging"

	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "controlbench",
	Short: "Classroom tool for designing negative controls",
	Long: `controlbench runs the negative-control design activity: students pick a
research question, author control columns over its feature checklist, submit
them and compare with the rest of the class.

"serve" runs the HTTP API over OxiDB; "author" starts the terminal wizard
against a running server; "cleanup" and "diag" are operator commands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		var err error
		logger, err = logging.New(cfg.Debug, cfg.GelfAddr)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, authorCmd, cleanupCmd, diagCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
