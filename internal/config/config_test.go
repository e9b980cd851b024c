package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "model: qwen/qwen-2.5-coder\nignored_dirs:\n  - dist\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "qwen/qwen-2.5-coder", cfg.Model)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
	assert.True(t, cfg.IsIgnoredDir("dist"))
	assert.True(t, cfg.IsIgnoredDir("node_modules"))
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0644))

	_, err := loadFrom(path)
	assert.Error(t, err)
}

func TestIsIgnoredDir(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsIgnoredDir(".git"))
	assert.False(t, cfg.IsIgnoredDir("src"))
}
