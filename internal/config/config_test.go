package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "experiments/results", cfg.ResultsDir)
	assert.Equal(t, 12, cfg.MaxExactClients)
	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, 5000, cfg.Annealing.Iterations)
	assert.InDelta(t, 0.995, cfg.Annealing.Alpha, 1e-12)
	assert.InDelta(t, 100.0, cfg.Weights.Risk, 1e-12)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("data_dir: maps\nmax_exact_clients: 8\nserver:\n  address: \":8080\"\nannealing:\n  iterations: 200\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "maps", cfg.DataDir)
	assert.Equal(t, 8, cfg.MaxExactClients)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 200, cfg.Annealing.Iterations)
	// Untouched keys keep their defaults.
	assert.Equal(t, "experiments/results", cfg.ResultsDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("annealing:\n  alpha: 1.5\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DRONE_DATA_DIR", "/tmp/override")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", cfg.DataDir)
}
