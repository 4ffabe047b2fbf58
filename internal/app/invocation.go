package app

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Invocation is an immutable snapshot of one solve launch: the resolved
// binary, the exact argument vector, and the child environment.
type Invocation struct {
	RunID     string
	Task      string
	Label     string
	SolveBin  string
	Args      []string
	Env       []string
	CreatedAt time.Time
}

// BuildArgs constructs the solve argument vector. Flag names and order are
// fixed; they are the wire contract with the solve program. Identical
// configurations yield identical vectors.
func BuildArgs(cfg Config) []string {
	return []string{
		"--index", strconv.Itoa(cfg.Index),
		"--task", cfg.Task,
		"--data_file", cfg.ResolvedDataFile(),
		"--llm_engine_name", cfg.LLMEngine,
		"--root_cache_dir", cfg.ResolvedCacheDir(),
		"--output_json_dir", cfg.ResolvedOutputDir(),
		"--output_types", cfg.OutputTypes,
		"--enabled_tools", JoinTools(cfg.EnabledTools),
		"--max_time", strconv.Itoa(cfg.MaxTime),
	}
}

// NewInvocation assigns a fresh run id and builds the child environment:
// the parent environment passed through plus SOLVERUN_RUN_* correlation
// variables. The solve program takes its inputs from flags, not from these.
func NewInvocation(cfg Config) Invocation {
	id := uuid.NewString()
	env := append(os.Environ(),
		"SOLVERUN_RUN_ID="+id,
		"SOLVERUN_RUN_LABEL="+cfg.Label,
		"SOLVERUN_RUN_LOG_DIR="+cfg.ResolvedLogDir(),
	)
	return Invocation{
		RunID:     id,
		Task:      cfg.Task,
		Label:     cfg.Label,
		SolveBin:  cfg.SolveBin,
		Args:      BuildArgs(cfg),
		Env:       env,
		CreatedAt: time.Now().UTC(),
	}
}

// argsSnapshot is the on-disk args.json contract for a run, written before
// exec so the exact vector survives even if the child never starts.
type argsSnapshot struct {
	RunID     string   `json:"run_id"`
	Task      string   `json:"task"`
	Label     string   `json:"label"`
	SolveBin  string   `json:"solve_bin"`
	Args      []string `json:"args"`
	Timestamp string   `json:"timestamp"`
}

func (inv Invocation) WriteSnapshot(path string) error {
	snap := argsSnapshot{
		RunID:     inv.RunID,
		Task:      inv.Task,
		Label:     inv.Label,
		SolveBin:  inv.SolveBin,
		Args:      RedactArgs(inv.Args),
		Timestamp: inv.CreatedAt.Format(time.RFC3339Nano),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
