// Package config loads process configuration from the environment, with an
// optional .env file for development.
package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs to start.
type Config struct {
	// DataDir is where both storage generations live.
	DataDir string

	// DBPath is the record-store database file.
	DBPath string

	// LegacyPath is the flat key/value file of the prior generation.
	LegacyPath string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env file not loaded", "error", err)
	}

	dataDir := getEnv("DATA_DIR", "./data")
	return &Config{
		DataDir:    dataDir,
		DBPath:     getEnv("DB_PATH", filepath.Join(dataDir, "backoffice.db")),
		LegacyPath: getEnv("LEGACY_PATH", filepath.Join(dataDir, "legacy.json")),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
