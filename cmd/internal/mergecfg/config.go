// Package mergecfg loads and persists workspace-level settings for the
// treemend CLI and servers.
package mergecfg

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures every knob shared across the CLI, HTTP, and RPC entry
// points. Keeping it a lightweight struct makes it trivial to reuse in
// tests or future headless workflows.
type Config struct {
	Workspace       string `yaml:"workspace"`
	HistoryPath     string `yaml:"history_path"`
	HistoryBackend  string `yaml:"history_backend"` // "sqlite" or "file"
	ServerAddr      string `yaml:"server_addr"`
	DefaultLanguage string `yaml:"default_language"`
	BaselineRev     string `yaml:"baseline_rev"`
}

// DefaultConfig infers sensible defaults based on the current working
// directory. Errors from os.Getwd are ignored so callers can override
// manually.
func DefaultConfig() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Config{
		Workspace:       cwd,
		HistoryPath:     filepath.Join(cwd, ".treemend", "history.db"),
		HistoryBackend:  "sqlite",
		ServerAddr:      ":8533",
		DefaultLanguage: "",
		BaselineRev:     "HEAD",
	}
}

// ConfigPath returns the YAML path inside a workspace.
func ConfigPath(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".treemend", "config.yaml")
}

// Load reads the workspace configuration, falling back to defaults when no
// file exists.
func Load(workspace string) (Config, error) {
	cfg := DefaultConfig()
	if workspace != "" {
		cfg.Workspace = workspace
		cfg.HistoryPath = filepath.Join(workspace, ".treemend", "history.db")
	}
	data, err := os.ReadFile(ConfigPath(workspace))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.normalize(workspace)
	return cfg, nil
}

// Save writes the configuration back to disk.
func Save(workspace string, cfg Config) error {
	path := ConfigPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) normalize(workspace string) {
	if c.Workspace == "" {
		c.Workspace = workspace
	}
	if c.HistoryBackend == "" {
		c.HistoryBackend = "sqlite"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8533"
	}
	if c.BaselineRev == "" {
		c.BaselineRev = "HEAD"
	}
	if c.HistoryPath != "" && !filepath.IsAbs(c.HistoryPath) {
		c.HistoryPath = filepath.Join(c.Workspace, c.HistoryPath)
	}
}
