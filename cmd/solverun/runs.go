package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solve-launcher/internal/app"

	"github.com/spf13/cobra"
)

func openRunStore() (*app.RunStore, error) {
	cfg, err := app.LoadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	return app.NewRunStore(app.LedgerPath(cfg.ProjectDir))
}

// findRun resolves an exact run id or an unambiguous prefix.
func findRun(store *app.RunStore, id string) (app.Run, error) {
	if run, ok := store.Get(id); ok {
		return run, nil
	}
	var matches []app.Run
	runs, err := store.List()
	if err != nil {
		return app.Run{}, err
	}
	for _, run := range runs {
		if strings.HasPrefix(run.ID, id) {
			matches = append(matches, run)
		}
	}
	switch len(matches) {
	case 0:
		return app.Run{}, fmt.Errorf("no run %q in the ledger", id)
	case 1:
		return matches[0], nil
	default:
		return app.Run{}, fmt.Errorf("run id %q is ambiguous (%d matches)", id, len(matches))
	}
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openRunStore()
			if err != nil {
				return err
			}
			runs, err := store.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s %-8s %-5s %-24s %-20s %s\n", "ID", "STATUS", "EXIT", "TASK/LABEL", "STARTED", "DURATION")
			for _, run := range runs {
				fmt.Fprintf(w, "%-10s %-8s %-5d %-24s %-20s %s\n",
					shortID(run.ID),
					run.Status,
					run.ExitCode,
					run.Task+"/"+run.Label,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Duration().Round(time.Millisecond),
				)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openRunStore()
			if err != nil {
				return err
			}
			run, err := findRun(store, args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.AddCommand(show)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newLogsCmd() *cobra.Command {
	var (
		lines     int
		follow    bool
		useStderr bool
	)
	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Print captured output for a run",
		Long: "Print the captured stdout (or stderr) of a recorded run.\n\nExamples:\n" +
			"  - solverun logs 3f2a\n" +
			"  - solverun logs 3f2a -n 200\n" +
			"  - solverun logs 3f2a --follow",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openRunStore()
			if err != nil {
				return err
			}
			run, err := findRun(store, args[0])
			if err != nil {
				return err
			}

			path := run.StdoutLog
			if useStderr {
				path = run.StderrLog
			}
			if path == "" {
				return fmt.Errorf("run %s has no captured log", shortID(run.ID))
			}

			out := cmd.OutOrStdout()
			if follow {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return app.FollowFile(ctx, path, out)
			}
			return app.TailFile(path, out, lines)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Print the whole capture and keep streaming as it grows")
	cmd.Flags().BoolVar(&useStderr, "stderr", false, "Print the stderr capture instead of stdout")
	return cmd
}
