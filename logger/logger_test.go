package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/romeopuiu/scratch-game/config"
)

func fileConfig(dir string) config.LogConfig {
	return config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: "file",
		File: config.LogFileConfig{
			Path:       dir,
			Filename:   "scratch.log",
			MaxSize:    1,
			MaxBackups: 1,
		},
	}
}

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	l, err := New(fileConfig(dir))
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("play settled", zap.Int("reward", 500))
	l.Error("boom")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "scratch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"play settled"`)
	assert.Contains(t, string(data), `"reward":500`)
	assert.NotContains(t, string(data), "hidden")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), "boom")
	assert.NotContains(t, string(errs), "play settled")
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = New(config.LogConfig{Output: "syslog"})
	assert.Error(t, err)
}

func TestInitAndL(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		global = nil
		mu.Unlock()
	})
	assert.NotNil(t, L())

	dir := t.TempDir()
	require.NoError(t, Init(fileConfig(dir)))
	With(zap.String("game", "standard")).Info("ready")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "scratch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"game":"standard"`)
}
