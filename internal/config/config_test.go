package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/ember/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert.Equal(t, config.Config{}, config.Default())
}

func TestLoadMissingPathIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadEmptyPathSkipsFileLayer(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yaml")
	content := "max_steps: 1000\nmax_call_depth: 64\ntrace_exec: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Config{MaxSteps: 1000, MaxCallDepth: 64, TraceExec: true}, cfg)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yaml")
	content := "max_steps: 1000\nmax_call_depth: 64\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("EMBER_MAX_STEPS", "42")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxSteps)
	assert.Equal(t, 64, cfg.MaxCallDepth)
}
