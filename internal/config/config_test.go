package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Empty(t, cfg.Data.BackupDir)
	assert.Len(t, cfg.Forbes.URLs, 3)
	assert.Contains(t, cfg.Forbes.URLs[0], "forbesapi/person/rtb")
	assert.Contains(t, cfg.Forbes.UserAgent, "Mozilla/5.0")
	assert.Equal(t, 30, cfg.Forbes.TimeoutSecs)
	assert.Equal(t, 2, cfg.Forbes.MaxRetries)
	assert.InDelta(t, 1.0, cfg.Forbes.RateLimit, 0.001)
	assert.Empty(t, cfg.Repair.UnknownPatterns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  dir: /var/lib/rtb
  backup_dir: /var/backups/rtb
forbes:
  timeout_secs: 10
repair:
  unknown_patterns:
    - "(?i)^n/a$"
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/rtb", cfg.Data.Dir)
	assert.Equal(t, "/var/backups/rtb", cfg.Data.BackupDir)
	assert.Equal(t, 10, cfg.Forbes.TimeoutSecs)
	assert.Equal(t, []string{"(?i)^n/a$"}, cfg.Repair.UnknownPatterns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 2, cfg.Forbes.MaxRetries)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("RTB_LOG_LEVEL", "warn")
	t.Setenv("RTB_DATA_DIR", "/srv/rtb")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/srv/rtb", cfg.Data.Dir)
}

func TestPaths(t *testing.T) {
	cfg := &Config{Data: DataConfig{Dir: "/srv/rtb"}}

	assert.Equal(t, filepath.Join("/srv/rtb", "billionaires.parquet"), cfg.BillionairesPath())
	assert.Equal(t, filepath.Join("/srv/rtb", "assets.parquet"), cfg.AssetsPath())
	assert.Equal(t, filepath.Join("/srv/rtb", "backups"), cfg.ResolvedBackupDir())

	cfg.Data.BackupDir = "/var/backups"
	assert.Equal(t, "/var/backups", cfg.ResolvedBackupDir())
}

func TestUnknownPatterns(t *testing.T) {
	cfg := &Config{}

	patterns, err := cfg.UnknownPatterns()
	require.NoError(t, err)
	assert.Nil(t, patterns, "empty config falls back to built-in defaults")

	cfg.Repair.UnknownPatterns = []string{`(?i)^n/a$`, `^-+$`}
	patterns, err = cfg.UnknownPatterns()
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.True(t, patterns[0].MatchString("N/A"))

	cfg.Repair.UnknownPatterns = []string{`(unclosed`}
	_, err = cfg.UnknownPatterns()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Data:   DataConfig{Dir: "data"},
		Forbes: ForbesConfig{URLs: []string{"https://example.com"}, TimeoutSecs: 30, RateLimit: 1},
	}
	assert.NoError(t, valid.Validate())

	bad := &Config{}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.dir is required")
	assert.Contains(t, err.Error(), "forbes.urls")
	assert.Contains(t, err.Error(), "forbes.timeout_secs")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
