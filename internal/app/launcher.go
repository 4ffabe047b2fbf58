package app

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Launcher wires the pieces of one configured launch together: the run
// configuration, the structured logger, the run ledger, and the process
// runner.
type Launcher struct {
	Config Config
	Logger *zap.Logger
	Runs   *RunStore
	Runner *Runner
}

func NewLauncher(cfg Config, logger *zap.Logger) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := NewRunStore(LedgerPath(cfg.ProjectDir))
	if err != nil {
		return nil, err
	}
	runner := NewRunner(logger, store)
	if cfg.Quiet {
		runner.Out = io.Discard
		runner.Err = io.Discard
	}
	return &Launcher{
		Config: cfg,
		Logger: logger,
		Runs:   store,
		Runner: runner,
	}, nil
}

// LaunchOnce performs the single external invocation for the configured run.
func (l *Launcher) LaunchOnce(ctx context.Context) (Run, error) {
	return l.Runner.Launch(ctx, l.Config)
}
