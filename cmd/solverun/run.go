package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"solve-launcher/internal/app"

	"github.com/spf13/cobra"
)

// runFlags mirrors every run configuration field. Only flags the user
// actually set override the loaded configuration.
type runFlags struct {
	projectDir  string
	task        string
	label       string
	dataFile    string
	logDir      string
	outputDir   string
	cacheDir    string
	engine      string
	tools       string
	outputTypes string
	index       int
	maxTime     int
	solveBin    string
	quiet       bool
}

func registerRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVar(&f.projectDir, "project-dir", "", "Project directory the task layout is derived from")
	cmd.Flags().StringVar(&f.task, "task", "", "Task name")
	cmd.Flags().StringVar(&f.label, "label", "", "Run label")
	cmd.Flags().StringVar(&f.dataFile, "data-file", "", "Data file (overrides <task>/data/data.json)")
	cmd.Flags().StringVar(&f.logDir, "log-dir", "", "Log directory (overrides <task>/logs/<label>)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Result directory (overrides <task>/results/<label>)")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "Cache directory (overrides <task>/cache)")
	cmd.Flags().StringVar(&f.engine, "llm-engine", "", "LLM engine name forwarded to solve")
	cmd.Flags().StringVar(&f.tools, "tools", "", "Comma-separated enabled tools")
	cmd.Flags().StringVar(&f.outputTypes, "output-types", "", "Output types forwarded to solve")
	cmd.Flags().IntVar(&f.index, "index", 0, "Problem index forwarded to solve")
	cmd.Flags().IntVar(&f.maxTime, "max-time", 0, "Per-run time budget in seconds")
	cmd.Flags().StringVar(&f.solveBin, "solve-bin", "", "Solve binary name or path")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Do not mirror solve output to the console")
}

func applyFlagOverrides(cmd *cobra.Command, f *runFlags, cfg *app.Config) {
	set := cmd.Flags().Changed
	if set("project-dir") {
		cfg.ProjectDir = f.projectDir
	}
	if set("task") {
		cfg.Task = f.task
	}
	if set("label") {
		cfg.Label = f.label
	}
	if set("data-file") {
		cfg.DataFile = f.dataFile
	}
	if set("log-dir") {
		cfg.LogDir = f.logDir
	}
	if set("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if set("cache-dir") {
		cfg.CacheDir = f.cacheDir
	}
	if set("llm-engine") {
		cfg.LLMEngine = f.engine
	}
	if set("tools") {
		cfg.EnabledTools = app.SplitTools(f.tools)
	}
	if set("output-types") {
		cfg.OutputTypes = f.outputTypes
	}
	if set("index") {
		cfg.Index = f.index
	}
	if set("max-time") {
		cfg.MaxTime = f.maxTime
	}
	if set("solve-bin") {
		cfg.SolveBin = f.solveBin
	}
	if set("quiet") {
		cfg.Quiet = f.quiet
	}
}

func loadRunConfig(cmd *cobra.Command, f *runFlags) (app.Config, error) {
	cfg, err := app.LoadConfig(flagConfig)
	if err != nil {
		return cfg, err
	}
	if f != nil {
		applyFlagOverrides(cmd, f, &cfg)
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch the solve program once",
		Long: "Launch the solve program exactly once with the configured argument vector.\n" +
			"Output streams to the console and into the run's log directory; the solve\n" +
			"exit code becomes the solverun exit code.\n\nExamples:\n" +
			"  - solverun run\n" +
			"  - solverun run --task medical --label exp31\n" +
			"  - solverun run --llm-engine gpt-4o --max-time 600",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, &flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			launcher, err := app.NewLauncher(cfg, logger)
			if err != nil {
				return err
			}
			run, err := launcher.LaunchOnce(ctx)
			if err != nil {
				return err
			}
			if run.ExitCode != 0 {
				return &app.ExitError{Code: run.ExitCode}
			}
			return nil
		},
	}
	registerRunFlags(cmd, &flags)
	return cmd
}

func newArgsCmd() *cobra.Command {
	var flags runFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "args",
		Short: "Print the solve argument vector without launching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, &flags)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			argv := app.BuildArgs(cfg)
			if asJSON {
				out, err := json.MarshalIndent(struct {
					SolveBin string   `json:"solve_bin"`
					Args     []string `json:"args"`
				}{cfg.SolveBin, argv}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.SolveBin+" "+strings.Join(argv, " "))
			return nil
		},
	}
	registerRunFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
