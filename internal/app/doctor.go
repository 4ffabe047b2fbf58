package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type Check struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type DoctorResult struct {
	OK     bool    `json:"ok"`
	Checks []Check `json:"checks"`
}

func (r *DoctorResult) add(c Check) {
	if !c.OK {
		r.OK = false
	}
	r.Checks = append(r.Checks, c)
}

// RunDoctor diagnoses the environment for cfg without launching anything.
// Soft findings (unknown engine, running as root) stay OK with a message;
// hard failures flip the result.
func RunDoctor(cfg Config) DoctorResult {
	res := DoctorResult{OK: true}

	// Solve binary resolvable.
	if bin, err := ResolveBin(cfg.SolveBin); err != nil {
		res.add(Check{ID: "solve_bin", OK: false, Message: err.Error()})
	} else {
		res.add(Check{ID: "solve_bin", OK: true, Message: bin})
	}

	// Write access: create and remove a probe file under the project dir.
	probe := filepath.Join(cfg.ProjectDir, ".solverun.doctor.tmp")
	if err := os.WriteFile(probe, []byte("ok\n"), 0o644); err != nil {
		res.add(Check{ID: "project_dir", OK: false, Message: err.Error()})
	} else {
		_ = os.Remove(probe)
		res.add(Check{ID: "project_dir", OK: true})
	}

	// Data file present.
	dataFile := cfg.ResolvedDataFile()
	if _, err := os.Stat(dataFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.add(Check{ID: "data_file", OK: false, Message: fmt.Sprintf("%s does not exist", dataFile)})
		} else {
			res.add(Check{ID: "data_file", OK: false, Message: err.Error()})
		}
	} else {
		res.add(Check{ID: "data_file", OK: true, Message: dataFile})
	}

	// Config file parse (best-effort): if present, it must parse.
	if path := DefaultConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := LoadConfig(path); err != nil {
				res.add(Check{ID: "config_file", OK: false, Message: err.Error()})
			} else {
				res.add(Check{ID: "config_file", OK: true})
			}
		} else {
			res.add(Check{ID: "config_file", OK: true, Message: "missing (ok)"})
		}
	}

	// Engine name known to the registry (warning only).
	if info, ok := LookupEngine(cfg.LLMEngine); ok {
		res.add(Check{ID: "llm_engine", OK: true, Message: info.Family})
	} else {
		res.add(Check{ID: "llm_engine", OK: true, Message: fmt.Sprintf("%q not recognized (ok, forwarded as-is)", cfg.LLMEngine)})
	}

	// Running as root (warning only).
	if IsProcessRoot() {
		res.add(Check{ID: "process_user", OK: true, Message: "running as root (not recommended)"})
	} else {
		res.add(Check{ID: "process_user", OK: true})
	}

	return res
}
