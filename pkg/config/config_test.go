package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	f := Flags("test")
	require.NoError(t, f.Parse(args))
	cfg, err := Load(f)
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := parse(t)

	assert.Equal(t, "", cfg.Graph)
	assert.False(t, cfg.WebMode)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.OpenBrowser)
	assert.Equal(t, 2*time.Second, cfg.Interval())
	assert.Equal(t, logging.FormatCompact, cfg.LogFormat)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(`
graph = "maze.toml"
port = 7000
interval = 500
`), 0o644))

	t.Run("file", func(t *testing.T) {
		cfg := parse(t)
		assert.Equal(t, "maze.toml", cfg.Graph)
		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, 500*time.Millisecond, cfg.Interval())
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("BFS_VISUALIZER_PORT", "7100")
		t.Setenv("BFS_VISUALIZER_LOG_FORMAT", "json")

		cfg := parse(t)
		assert.Equal(t, 7100, cfg.Port)
		assert.Equal(t, logging.FormatJSON, cfg.LogFormat)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("BFS_VISUALIZER_PORT", "7100")

		cfg := parse(t, "--port", "7200", "-s", "B", "--web")
		assert.Equal(t, 7200, cfg.Port)
		assert.Equal(t, "B", cfg.Start)
		assert.True(t, cfg.WebMode)
	})
}

func TestLoadExplicitConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`goal = "Z"`), 0o644))

	cfg := parse(t, "--config", path)
	assert.Equal(t, "Z", cfg.Goal)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	f := Flags("test")
	require.NoError(t, f.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.toml")}))

	_, err := Load(f)
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port zero", []string{"--port", "0"}},
		{"interval too small", []string{"--interval", "1"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"bad verbosity", []string{"--verbosity", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			f := Flags("test")
			require.NoError(t, f.Parse(tt.args))

			_, err := Load(f)
			assert.Error(t, err)
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		cfg  Config
		want slog.Level
	}{
		{Config{}, slog.LevelInfo},
		{Config{VerboseCnt: 1}, slog.LevelDebug},
		{Config{VerboseCnt: 3}, logging.LevelTrace},
		{Config{Verbosity: "warn", VerboseCnt: 2}, slog.LevelWarn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.LogLevel())
	}
}
