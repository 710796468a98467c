package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/trade_journal/internal/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
storage:
  driver: sqlite
  path: /tmp/j.db
logging:
  level: debug
  file: journal.log
server:
  port: 9090
dashboard:
  today_formula: ratio
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/j.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "journal.log", cfg.Logging.File)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.TodayFormulaRatio, cfg.Dashboard.TodayFormula)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOURNAL_DB_PATH", "env.db")
	t.Setenv("JOURNAL_PORT", "7000")
	t.Setenv("JOURNAL_TODAY_FORMULA", "ratio")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Storage.Path)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, config.TodayFormulaRatio, cfg.Dashboard.TodayFormula)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Bad driver", "storage:\n  driver: postgres\n"},
		{"Bad formula", "dashboard:\n  today_formula: median\n"},
		{"Bad port", "server:\n  port: 70000\n"},
		{"Bad yaml", "storage: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "config.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("JOURNAL_PORT", "eighty")
	_, err := config.Load("")
	assert.Error(t, err)
}
