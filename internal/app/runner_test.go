package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// writeStubSolve drops an executable shell script standing in for the solve
// program.
func writeStubSolve(t *testing.T, dir, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub solve scripts require a unix shell")
	}
	path := filepath.Join(dir, "solve")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRunner(t *testing.T, projectDir string) (*Runner, *RunStore) {
	t.Helper()
	store, err := NewRunStore(LedgerPath(projectDir))
	if err != nil {
		t.Fatalf("NewRunStore: %v", err)
	}
	runner := NewRunner(zap.NewNop(), store)
	runner.Out = &bytes.Buffer{}
	runner.Err = &bytes.Buffer{}
	runner.Stdin = nil
	return runner, store
}

func TestLaunch_InvokesSolveExactlyOnce(t *testing.T) {
	projectDir := t.TempDir()
	countFile := filepath.Join(projectDir, "count")
	stub := writeStubSolve(t, projectDir, "echo invoked >> "+countFile+"\necho hello\n")

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub

	runner, store := newTestRunner(t, projectDir)
	run, err := runner.Launch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	data, err := os.ReadFile(countFile)
	if err != nil {
		t.Fatalf("count file: %v", err)
	}
	if got := strings.Count(string(data), "invoked"); got != 1 {
		t.Fatalf("solve invoked %d times, want exactly 1", got)
	}

	if run.Status != RunExited {
		t.Fatalf("status = %q, want %q", run.Status, RunExited)
	}
	if run.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", run.ExitCode)
	}
	if run.PID == 0 {
		t.Fatal("run has no pid")
	}

	stored, ok := store.Get(run.ID)
	if !ok {
		t.Fatal("run not recorded in ledger")
	}
	if stored.Status != RunExited {
		t.Fatalf("ledger status = %q, want %q", stored.Status, RunExited)
	}
}

func TestLaunch_InvokesOnceEvenWhenSolveFails(t *testing.T) {
	projectDir := t.TempDir()
	countFile := filepath.Join(projectDir, "count")
	stub := writeStubSolve(t, projectDir, "echo invoked >> "+countFile+"\nexit 7\n")

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub

	runner, _ := newTestRunner(t, projectDir)
	run, err := runner.Launch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Launch returned launcher error for child failure: %v", err)
	}

	data, err := os.ReadFile(countFile)
	if err != nil {
		t.Fatalf("count file: %v", err)
	}
	if got := strings.Count(string(data), "invoked"); got != 1 {
		t.Fatalf("solve invoked %d times, want exactly 1", got)
	}

	if run.Status != RunFailed {
		t.Fatalf("status = %q, want %q", run.Status, RunFailed)
	}
	if run.ExitCode != 7 {
		t.Fatalf("exit code = %d, want 7 (passthrough)", run.ExitCode)
	}
}

func TestLaunch_MissingBinaryFails(t *testing.T) {
	projectDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = "solverun-test-missing-binary"

	runner, _ := newTestRunner(t, projectDir)
	if _, err := runner.Launch(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing solve binary")
	}
}

func TestLaunch_CapturesOutputAndArtifacts(t *testing.T) {
	projectDir := t.TempDir()
	script := "echo planning step\n" +
		"echo '```xml'\n" +
		"echo '<mxGraphModel/>'\n" +
		"echo '```'\n" +
		"echo diagnostics >&2\n"
	stub := writeStubSolve(t, projectDir, script)

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub

	runner, _ := newTestRunner(t, projectDir)
	out := &bytes.Buffer{}
	runner.Out = out

	run, err := runner.Launch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	stdout, err := os.ReadFile(run.StdoutLog)
	if err != nil {
		t.Fatalf("stdout log: %v", err)
	}
	if !strings.Contains(string(stdout), "planning step") {
		t.Fatalf("stdout log missing child output: %q", string(stdout))
	}
	if !strings.Contains(out.String(), "planning step") {
		t.Fatalf("console mirror missing child output: %q", out.String())
	}

	stderr, err := os.ReadFile(run.StderrLog)
	if err != nil {
		t.Fatalf("stderr log: %v", err)
	}
	if !strings.Contains(string(stderr), "diagnostics") {
		t.Fatalf("stderr log missing child output: %q", string(stderr))
	}

	if len(run.Artifacts) != 1 {
		t.Fatalf("artifacts = %v, want exactly 1", run.Artifacts)
	}
	body, err := os.ReadFile(run.Artifacts[0])
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(body)) != "<mxGraphModel/>" {
		t.Fatalf("artifact content = %q, want mxGraphModel element", string(body))
	}
}

func TestLaunch_WritesArgsSnapshotBeforeExec(t *testing.T) {
	projectDir := t.TempDir()
	stub := writeStubSolve(t, projectDir, "exit 0\n")

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub

	runner, _ := newTestRunner(t, projectDir)
	run, err := runner.Launch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	snapshot := filepath.Join(cfg.ResolvedLogDir(), run.ID+".args.json")
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("args snapshot: %v", err)
	}
	launcherLog := filepath.Join(cfg.ResolvedLogDir(), run.ID+".launcher.log")
	if _, err := os.Stat(launcherLog); err != nil {
		t.Fatalf("launcher log: %v", err)
	}
}

func TestLaunch_ForwardsConfiguredVector(t *testing.T) {
	projectDir := t.TempDir()
	argsFile := filepath.Join(projectDir, "seen-args")
	stub := writeStubSolve(t, projectDir, `printf '%s\n' "$@" > `+argsFile+"\n")

	cfg := DefaultConfig()
	cfg.ProjectDir = projectDir
	cfg.SolveBin = stub

	runner, _ := newTestRunner(t, projectDir)
	if _, err := runner.Launch(context.Background(), cfg); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("seen-args: %v", err)
	}
	got := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	want := BuildArgs(cfg)
	if len(got) != len(want) {
		t.Fatalf("child saw %d args, want %d:\n%v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("child arg[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveBin_PathSeparatorUsedAsGiven(t *testing.T) {
	got, err := ResolveBin("./relative/solve")
	if err != nil {
		t.Fatalf("ResolveBin: %v", err)
	}
	if got != "./relative/solve" {
		t.Fatalf("ResolveBin = %q, want input preserved", got)
	}
}
