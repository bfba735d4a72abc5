// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the settings of the moves tools.
type Config struct {
	LogLevel    log.Level // MOVES_LOG_LEVEL, default info.
	LogFormat   string    // MOVES_LOG_FORMAT: "text" or "json".
	LibraryPath string    // MOVES_LIBRARY: moves source preloaded into every session.
	ImagePath   string    // MOVES_IMAGE: YAML image used when none is given.
	HistoryPath string    // MOVES_HISTORY: REPL history file.
	MaxParallel int       // MOVES_MAX_PARALLEL: files checked at once.
}

const (
	defaultHistoryFile = ".moves_history"
	defaultMaxParallel = 4
)

// Load reads the given .env files, ".env" if none are given, and then the
// environment. Missing .env files are ignored. Variables already set in the
// environment take precedence over .env entries.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	c := Config{
		LogFormat:   strings.ToLower(envOr("MOVES_LOG_FORMAT", "text")),
		LibraryPath: os.Getenv("MOVES_LIBRARY"),
		ImagePath:   os.Getenv("MOVES_IMAGE"),
		HistoryPath: os.Getenv("MOVES_HISTORY"),
		MaxParallel: defaultMaxParallel,
	}

	level, err := log.ParseLevel(envOr("MOVES_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MOVES_LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return Config{}, fmt.Errorf("invalid MOVES_LOG_FORMAT %q: want text or json", c.LogFormat)
	}

	if v := os.Getenv("MOVES_MAX_PARALLEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid MOVES_MAX_PARALLEL %q: want a positive integer", v)
		}
		c.MaxParallel = n
	}

	if c.HistoryPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryPath = filepath.Join(home, defaultHistoryFile)
		}
	}

	return c, nil
}

// ConfigureLogger applies the level and format to the standard logrus logger.
func (c Config) ConfigureLogger() {
	log.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
