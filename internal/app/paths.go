package app

import (
	"os"
	"path/filepath"
	"strings"
)

// Derived paths follow the task layout the solve program expects:
// <task>/data/data.json, <task>/logs/<label>, <task>/results/<label>,
// <task>/cache, all relative to the project dir. An explicit override on
// the config wins over the derived value.

// ExpandHome rewrites a leading ~ to the user's home directory. Shells do
// this for flags, but values from YAML or env arrive verbatim.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

func (c Config) taskDir() string {
	return filepath.Join(c.ProjectDir, c.Task)
}

func (c Config) ResolvedDataFile() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	return filepath.Join(c.taskDir(), "data", "data.json")
}

func (c Config) ResolvedLogDir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(c.taskDir(), "logs", c.Label)
}

func (c Config) ResolvedOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Join(c.taskDir(), "results", c.Label)
}

func (c Config) ResolvedCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(c.taskDir(), "cache")
}

// EnsureDirs creates the launcher-side directories for a run.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.ResolvedLogDir(), c.ResolvedOutputDir(), c.ResolvedCacheDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// LedgerPath is where run records for a project are kept.
func LedgerPath(projectDir string) string {
	return filepath.Join(projectDir, ".solverun", "runs.json")
}
