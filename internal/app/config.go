package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration for one solve invocation. It is rebuilt
// from scratch on every launch; defaults < config file < SOLVERUN_* env <
// flags, applied in that order.
type Config struct {
	ProjectDir   string   `yaml:"project_dir"`
	Task         string   `yaml:"task"`
	Label        string   `yaml:"label"`
	DataFile     string   `yaml:"data_file"`
	LogDir       string   `yaml:"log_dir"`
	OutputDir    string   `yaml:"output_dir"`
	CacheDir     string   `yaml:"cache_dir"`
	LLMEngine    string   `yaml:"llm_engine_name"`
	EnabledTools []string `yaml:"enabled_tools"`
	OutputTypes  string   `yaml:"output_types"`
	Index        int      `yaml:"index"`
	MaxTime      int      `yaml:"max_time"`
	SolveBin     string   `yaml:"solve_bin"`
	Quiet        bool     `yaml:"quiet"`
}

func DefaultConfig() Config {
	return Config{
		ProjectDir:   ".",
		Task:         "aws",
		Label:        "quick_demo",
		LLMEngine:    "gpt-4o",
		EnabledTools: DefaultTools(),
		OutputTypes:  "direct",
		Index:        0,
		MaxTime:      300,
		SolveBin:     "solve",
	}
}

// LoadConfig reads the YAML config at path over the defaults and then applies
// SOLVERUN_* environment overrides. An empty path falls back to
// SOLVERUN_CONFIG and then to DefaultConfigPath; only an explicitly provided
// path is required to exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("SOLVERUN_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
			if explicit {
				return cfg, fmt.Errorf("config file %s does not exist", path)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	cfg.expandPaths()
	return cfg, nil
}

func (c *Config) expandPaths() {
	c.ProjectDir = ExpandHome(c.ProjectDir)
	c.DataFile = ExpandHome(c.DataFile)
	c.LogDir = ExpandHome(c.LogDir)
	c.OutputDir = ExpandHome(c.OutputDir)
	c.CacheDir = ExpandHome(c.CacheDir)
	c.SolveBin = ExpandHome(c.SolveBin)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SOLVERUN_PROJECT_DIR"); v != "" {
		cfg.ProjectDir = v
	}
	if v := os.Getenv("SOLVERUN_TASK"); v != "" {
		cfg.Task = v
	}
	if v := os.Getenv("SOLVERUN_LABEL"); v != "" {
		cfg.Label = v
	}
	if v := os.Getenv("SOLVERUN_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("SOLVERUN_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("SOLVERUN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SOLVERUN_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("SOLVERUN_LLM_ENGINE"); v != "" {
		cfg.LLMEngine = v
	}
	if v := os.Getenv("SOLVERUN_ENABLED_TOOLS"); v != "" {
		cfg.EnabledTools = SplitTools(v)
	}
	if v := os.Getenv("SOLVERUN_OUTPUT_TYPES"); v != "" {
		cfg.OutputTypes = v
	}
	if v := os.Getenv("SOLVERUN_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SOLVERUN_INDEX: %w", err)
		}
		cfg.Index = n
	}
	if v := os.Getenv("SOLVERUN_MAX_TIME"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SOLVERUN_MAX_TIME: %w", err)
		}
		cfg.MaxTime = n
	}
	if v := os.Getenv("SOLVERUN_SOLVE_BIN"); v != "" {
		cfg.SolveBin = v
	}
	return nil
}

// Validate checks shape only. The data file is deliberately not checked here:
// the solve program reports a missing file itself, and doctor probes for it.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ProjectDir) == "" {
		return errors.New("project_dir is required")
	}
	if strings.TrimSpace(c.Task) == "" {
		return errors.New("task is required")
	}
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("label is required")
	}
	if strings.TrimSpace(c.LLMEngine) == "" {
		return errors.New("llm_engine_name is required")
	}
	if strings.TrimSpace(c.OutputTypes) == "" {
		return errors.New("output_types is required")
	}
	if c.Index < 0 {
		return fmt.Errorf("index must be >= 0, got %d", c.Index)
	}
	if c.MaxTime < 1 {
		return fmt.Errorf("max_time must be >= 1, got %d", c.MaxTime)
	}
	if strings.TrimSpace(c.SolveBin) == "" {
		return errors.New("solve_bin is required")
	}
	for _, tool := range c.EnabledTools {
		if strings.TrimSpace(tool) == "" {
			return errors.New("enabled_tools contains an empty name")
		}
		if strings.ContainsAny(tool, ", \t") {
			return fmt.Errorf("tool name %q must not contain commas or whitespace", tool)
		}
	}
	return nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "solverun", "config.yml")
}
