package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExitError carries the solve program's exit code from the run path back to
// main, which converts it into the launcher's own exit status. It is the
// only exit-code taxonomy the launcher defines.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("solve exited with code %d", e.Code)
}

// Runner performs exactly one external invocation per Launch call and owns
// nothing else: no retry, no recovery, no timeout. The max_time value is
// forwarded to the child, never enforced here; cancelling ctx terminates
// the child, which is termination rather than timeout.
type Runner struct {
	Logger *zap.Logger
	Store  *RunStore

	// Console mirrors for the child's output streams. The full streams are
	// always teed into the run's log files regardless of these.
	Out   io.Writer
	Err   io.Writer
	Stdin io.Reader
}

func NewRunner(logger *zap.Logger, store *RunStore) *Runner {
	return &Runner{
		Logger: logger,
		Store:  store,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Stdin:  os.Stdin,
	}
}

// ResolveBin locates the solve binary. Names without a path separator are
// resolved via PATH; anything else is used as given.
func ResolveBin(bin string) (string, error) {
	if strings.ContainsRune(bin, os.PathSeparator) {
		return bin, nil
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("solve binary %q not found: %w", bin, err)
	}
	return path, nil
}

// Launch builds the invocation for cfg, runs the solve program once,
// synchronously, and records the outcome. The child's exit code lands in
// the returned Run; a non-nil error means the launcher itself failed, not
// the child.
func (r *Runner) Launch(ctx context.Context, cfg Config) (Run, error) {
	bin, err := ResolveBin(cfg.SolveBin)
	if err != nil {
		return Run{}, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return Run{}, err
	}

	inv := NewInvocation(cfg)
	logDir := cfg.ResolvedLogDir()

	if err := inv.WriteSnapshot(filepath.Join(logDir, inv.RunID+".args.json")); err != nil {
		return Run{}, fmt.Errorf("write args snapshot: %w", err)
	}

	logger, closeLog, err := WithRunLog(r.Logger, filepath.Join(logDir, inv.RunID+".launcher.log"))
	if err != nil {
		return Run{}, err
	}
	defer closeLog()

	stdoutPath := filepath.Join(logDir, inv.RunID+".stdout.log")
	stderrPath := filepath.Join(logDir, inv.RunID+".stderr.log")
	stdoutFile, err := os.OpenFile(stdoutPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Run{}, err
	}
	stderrFile, err := os.OpenFile(stderrPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = stdoutFile.Close()
		return Run{}, err
	}

	cmd := exec.CommandContext(ctx, bin, inv.Args...)
	cmd.Env = inv.Env
	cmd.Stdin = r.Stdin

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		closeFiles(stdoutFile, stderrFile)
		return Run{}, err
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		closeFiles(stdoutFile, stderrFile)
		return Run{}, err
	}

	logger.Info("run starting",
		zap.String("run_id", inv.RunID),
		zap.String("task", inv.Task),
		zap.String("label", inv.Label),
		zap.String("solve_bin", bin),
		zap.Strings("args", RedactArgs(inv.Args)),
	)

	if err := cmd.Start(); err != nil {
		closeFiles(stdoutFile, stderrFile)
		return Run{}, fmt.Errorf("start %s: %w", bin, err)
	}

	run := Run{
		ID:        inv.RunID,
		Task:      inv.Task,
		Label:     inv.Label,
		SolveBin:  bin,
		Args:      RedactArgs(inv.Args),
		PID:       cmd.Process.Pid,
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
		StdoutLog: stdoutPath,
		StderrLog: stderrPath,
	}
	if err := r.Store.Save(run); err != nil {
		logger.Warn("run record not saved", zap.String("run_id", run.ID), zap.Error(err))
	}

	mirrorOut := r.Out
	if mirrorOut == nil {
		mirrorOut = io.Discard
	}
	mirrorErr := r.Err
	if mirrorErr == nil {
		mirrorErr = io.Discard
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(mirrorOut, stdoutFile), outPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(io.MultiWriter(mirrorErr, stderrFile), errPipe)
		return err
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()
	closeFiles(stdoutFile, stderrFile)

	run.EndedAt = time.Now().UTC()
	run.Status = RunExited
	run.ExitCode = 0

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			run.Status = RunFailed
			run.ExitCode = exitErr.ExitCode()
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				run.ExitCode = 128 + int(ws.Signal())
			}
		} else {
			run.Status = RunFailed
			run.ExitCode = -1
			if err := r.Store.Save(run); err != nil {
				logger.Warn("run record not saved", zap.String("run_id", run.ID), zap.Error(err))
			}
			return run, waitErr
		}
	}

	if pumpErr != nil {
		logger.Warn("output capture incomplete", zap.String("run_id", run.ID), zap.Error(pumpErr))
	}

	artifacts, err := ExtractArtifacts(stdoutPath, filepath.Join(logDir, inv.RunID+".artifacts"))
	if err != nil {
		logger.Warn("artifact extraction failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	run.Artifacts = artifacts
	for _, a := range artifacts {
		logger.Info("artifact written", zap.String("run_id", run.ID), zap.String("path", a))
	}

	if err := r.Store.Save(run); err != nil {
		logger.Warn("run record not saved", zap.String("run_id", run.ID), zap.Error(err))
	}

	logger.Info("run finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(run.Status)),
		zap.Int("exit_code", run.ExitCode),
		zap.Duration("duration", run.Duration()),
		zap.Int("artifacts", len(artifacts)),
	)

	return run, nil
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
