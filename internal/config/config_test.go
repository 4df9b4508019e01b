package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-status/internal/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agentstatus.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load(config.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.ReaperGrace)
	assert.Empty(t, cfg.File())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeFile(t, "port: 9000\nlog_level: debug\nreaper_grace_seconds: 10\n")
	t.Setenv("PORT", "9100")

	cfg, err := config.Load(config.Overrides{ConfigFile: &path})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ReaperGrace)
	assert.Equal(t, path, cfg.File())
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env")

	port := 7000
	db := "postgres://override"
	level := "warn"
	cfg, err := config.Load(config.Overrides{Port: &port, DatabaseURL: &db, LogLevel: &level})
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, db, cfg.DatabaseURL)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad level", body: "log_level: loud\n"},
		{name: "bad port", body: "port: 70000\n"},
		{name: "negative grace", body: "reaper_grace_seconds: -1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.body)
			_, err := config.Load(config.Overrides{ConfigFile: &path})
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yml")
	_, err := config.Load(config.Overrides{ConfigFile: &path})
	assert.Error(t, err)
}

func TestWatch_ReloadsLevel(t *testing.T) {
	path := writeFile(t, "log_level: info\n")
	cfg, err := config.Load(config.Overrides{ConfigFile: &path})
	require.NoError(t, err)

	got := make(chan slog.Level, 4)
	cfg.Watch(func(next *config.Config) { got <- next.LogLevel })

	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	assert.Eventually(t, func() bool {
		select {
		case l := <-got:
			return l == slog.LevelDebug
		default:
			return false
		}
	}, 3*time.Second, 20*time.Millisecond)
}

func TestParseLevel(t *testing.T) {
	l, err := config.ParseLevel(" ERROR ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, l)
}
