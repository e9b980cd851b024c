// Package config loads the kodo configuration file and applies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the user-tunable configuration. The API key itself is never
// stored here; only the name of the environment variable that holds it.
type Config struct {
	Model       string   `yaml:"model"`
	FixerModel  string   `yaml:"fixer_model"`
	BaseURL     string   `yaml:"base_url"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	IgnoredDirs []string `yaml:"ignored_dirs"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Model:      "anthropic/claude-3.5-sonnet",
		FixerModel: "openai/gpt-4.1-mini",
		BaseURL:    "https://openrouter.ai/api/v1",
		APIKeyEnv:  "OPEN_ROUTER_API_KEY",
		IgnoredDirs: []string{
			"env", "venv", ".env", "node_modules", "vendor",
			"__pycache__", ".git", ".idea", ".vscode", ".kodo",
		},
	}
}

// Path returns the config file location under the user config directory.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, "kodo", "config.yaml"), nil
}

// Load reads the config file, merging it over the defaults. A missing file is
// not an error; a malformed one is.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.FixerModel != "" {
		cfg.FixerModel = file.FixerModel
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.APIKeyEnv != "" {
		cfg.APIKeyEnv = file.APIKeyEnv
	}
	cfg.IgnoredDirs = append(cfg.IgnoredDirs, file.IgnoredDirs...)

	return cfg, nil
}

// APIKey reads the key from the configured environment variable.
func (c Config) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// IsIgnoredDir reports whether a directory name should be skipped while
// walking project trees.
func (c Config) IsIgnoredDir(name string) bool {
	for _, d := range c.IgnoredDirs {
		if name == d {
			return true
		}
	}
	return false
}
