package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Mode)
	assert.Nil(t, cfg.Log.Level)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
mode = "endless"
time = 120
sound = false
punct-set = ".,"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Mode)
	assert.Equal(t, "endless", *cfg.Practice.Mode)
	require.NotNil(t, cfg.Practice.Time)
	assert.Equal(t, 120, *cfg.Practice.Time)
	require.NotNil(t, cfg.Practice.Sound)
	assert.False(t, *cfg.Practice.Sound)
	assert.Equal(t, ".,", *cfg.Practice.PunctSet)
	assert.Nil(t, cfg.Practice.Words)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nspeed = 3\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "practice.speed")
}

func TestLoadConfigDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode config")
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, "/cfg/typetest/config.toml", DefaultConfigPath())
	assert.Equal(t, "/cfg/typetest/wordlists/en.txt", DefaultWordListPath("en"))
	assert.Equal(t, "/data/typetest/typetest.db", DefaultDBPath())
	assert.Equal(t, "/state/typetest/typetest.log", DefaultLogPath())
}
