// Package config provides configuration management for the treatment
// advisor. This file contains the lightweight configuration for the
// one-shot CLI, which needs no config file or external services.
package config

import (
	"os"
	"path/filepath"
)

// LiteConfig is a simplified configuration for standalone operation.
type LiteConfig struct {
	// Data storage
	DataDir string // Base directory for data files (feedback database)

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".t2dm-advisor")

	return &LiteConfig{
		DataDir:   dataDir,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	if v := os.Getenv("T2DM_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("T2DM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("T2DM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// FeedbackDBPath returns the path to the feedback SQLite database.
func (c *LiteConfig) FeedbackDBPath() string {
	return filepath.Join(c.DataDir, "feedback.db")
}
