package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("SCRATCH_PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "configs", cfg.GamesDir)
	assert.Equal(t, "standard", cfg.DefaultGame)
	assert.Equal(t, 1_000_000, cfg.MaxSimulationRounds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, "scratch.log", cfg.Log.File.Filename)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SCRATCH_PORT", "")
	path := filepath.Join(t.TempDir(), "scratch.yaml")
	doc := "port: 9000\ngames_dir: ./games\nlog:\n  level: debug\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "./games", cfg.GamesDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("SCRATCH_PORT", "7000")
	t.Setenv("SCRATCH_DATA_DIR", "/var/scratch")
	t.Setenv("SCRATCH_LOG_LEVEL", "warn")
	t.Setenv("DATABASE_URL", "postgres://localhost/scratch")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "/var/scratch", cfg.DataDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres://localhost/scratch", cfg.DatabaseURL)

	t.Setenv("PORT", "6000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port, "PORT wins over SCRATCH_PORT")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
