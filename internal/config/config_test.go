package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, level)
}

func TestFileInDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "enabled = false\nlog_level = \"debug\"\n")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.Color)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestExplicitFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "color = false\n")
	cfg, err := Load(LoadOptions{ConfigFilePath: path})
	require.NoError(t, err)
	assert.False(t, cfg.Color)
	assert.True(t, cfg.Enabled)

	_, err = Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "enabled = true\n")
	t.Setenv("SHAPECHECK_ENABLED", "false")
	t.Setenv("SHAPECHECK_LOG_LEVEL", "warn")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"bad level": "log_level = \"loud\"\n",
		"bad toml":  "enabled = \n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, content)
			_, err := Load(LoadOptions{Dir: dir})
			assert.Error(t, err)
		})
	}
}
