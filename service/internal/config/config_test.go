// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"MOVES_LOG_LEVEL", "MOVES_LOG_FORMAT", "MOVES_LIBRARY",
	"MOVES_IMAGE", "MOVES_HISTORY", "MOVES_MAX_PARALLEL",
}

// clearEnv unsets every MOVES_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func missing(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/tester")

	c, err := Load(missing(t))
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, 4, c.MaxParallel)
	assert.Empty(t, c.LibraryPath)
	assert.Empty(t, c.ImagePath)
	assert.Equal(t, filepath.Join("/home/tester", ".moves_history"), c.HistoryPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOVES_LOG_LEVEL", "debug")
	t.Setenv("MOVES_LOG_FORMAT", "JSON")
	t.Setenv("MOVES_LIBRARY", "lib.moves")
	t.Setenv("MOVES_IMAGE", "start.yaml")
	t.Setenv("MOVES_HISTORY", "/tmp/hist")
	t.Setenv("MOVES_MAX_PARALLEL", "9")

	c, err := Load(missing(t))
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "lib.moves", c.LibraryPath)
	assert.Equal(t, "start.yaml", c.ImagePath)
	assert.Equal(t, "/tmp/hist", c.HistoryPath)
	assert.Equal(t, 9, c.MaxParallel)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOVES_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MOVES_LIBRARY=tricks.moves\nMOVES_LOG_LEVEL=trace\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tricks.moves", c.LibraryPath)
	assert.Equal(t, log.WarnLevel, c.LogLevel, "the environment wins over .env")
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"MOVES_LOG_LEVEL":    "loud",
		"MOVES_LOG_FORMAT":   "xml",
		"MOVES_MAX_PARALLEL": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load(missing(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	prevLevel, prevFormatter := log.GetLevel(), log.StandardLogger().Formatter
	t.Cleanup(func() {
		log.SetLevel(prevLevel)
		log.SetFormatter(prevFormatter)
	})

	Config{LogLevel: log.ErrorLevel, LogFormat: "json"}.ConfigureLogger()
	assert.Equal(t, log.ErrorLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
}
