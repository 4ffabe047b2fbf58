package main

import (
	"errors"
	"fmt"
	"os"

	"solve-launcher/internal/app"
	"solve-launcher/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	version = "1.0.0"
	repoURL = "https://github.com/solve-launcher/solverun"
)

var (
	flagConfig  string
	flagVerbose bool

	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "solverun",
		Short:   "solverun - launcher for the solve program",
		Long: "solverun builds a run configuration, derives the task directory layout,\n" +
			"and launches the external solve program exactly once with a fixed\n" +
			"argument vector. The solve exit code is passed through unchanged.\n\n" +
			"Use without arguments for the interactive launch screen, or 'solverun run'\n" +
			"for scripted launches.\n\nFor more information, visit: " + repoURL,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The launch screen owns the terminal; console logging would
			// tear the alternate screen.
			if cmd.Name() == "solverun" {
				logger = zap.NewNop()
				return nil
			}
			var err error
			logger, err = app.NewLogger(flagVerbose)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(cfg, logger))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to config file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newRunCmd(),
		newArgsCmd(),
		newDoctorCmd(),
		newRunsCmd(),
		newLogsCmd(),
		newToolsCmd(),
		newConfigCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *app.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
