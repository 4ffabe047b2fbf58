package app

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func doctorCheck(t *testing.T, res DoctorResult, id string) Check {
	t.Helper()
	for _, c := range res.Checks {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("doctor produced no %q check: %+v", id, res.Checks)
	return Check{}
}

func isolateUserConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
}

func TestRunDoctor_AllGreen(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub solve scripts require a unix shell")
	}
	isolateUserConfig(t)
	projectDir := t.TempDir()
	stub := filepath.Join(projectDir, "solve")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub

	dataDir := filepath.Dir(cfg.ResolvedDataFile())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.ResolvedDataFile(), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := RunDoctor(cfg)
	if !res.OK {
		t.Fatalf("doctor not OK: %+v", res.Checks)
	}
	if c := doctorCheck(t, res, "solve_bin"); !c.OK {
		t.Fatalf("solve_bin check failed: %s", c.Message)
	}
	if c := doctorCheck(t, res, "data_file"); !c.OK {
		t.Fatalf("data_file check failed: %s", c.Message)
	}
}

func TestRunDoctor_MissingDataFileFails(t *testing.T) {
	isolateUserConfig(t)
	projectDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = "solverun-test-missing-binary"

	res := RunDoctor(cfg)
	if res.OK {
		t.Fatal("doctor OK despite missing data file and binary")
	}
	if c := doctorCheck(t, res, "data_file"); c.OK {
		t.Fatal("data_file check passed for nonexistent file")
	}
	if c := doctorCheck(t, res, "solve_bin"); c.OK {
		t.Fatal("solve_bin check passed for unresolvable binary")
	}
	if c := doctorCheck(t, res, "project_dir"); !c.OK {
		t.Fatalf("project_dir check failed on writable temp dir: %s", c.Message)
	}
}

func TestRunDoctor_UnknownEngineIsWarningOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub solve scripts require a unix shell")
	}
	projectDir := t.TempDir()
	stub := filepath.Join(projectDir, "solve")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub
	cfg.LLMEngine = "my-custom-engine"

	dataDir := filepath.Dir(cfg.ResolvedDataFile())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.ResolvedDataFile(), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := RunDoctor(cfg)
	c := doctorCheck(t, res, "llm_engine")
	if !c.OK {
		t.Fatal("unknown engine flipped llm_engine check to failed")
	}
	if c.Message == "" {
		t.Fatal("unknown engine produced no advisory message")
	}
}
