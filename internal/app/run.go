package app

import "time"

type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunExited  RunStatus = "exited"
	RunFailed  RunStatus = "failed"
)

// Run is the persisted record of one solve launch. Args are stored with
// secrets redacted.
type Run struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Label     string    `json:"label"`
	SolveBin  string    `json:"solve_bin"`
	Args      []string  `json:"args"`
	PID       int       `json:"pid"`
	Status    RunStatus `json:"status"`
	ExitCode  int       `json:"exit_code"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	StdoutLog string    `json:"stdout_log"`
	StderrLog string    `json:"stderr_log"`
	Artifacts []string  `json:"artifacts,omitempty"`
}

func (r Run) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
