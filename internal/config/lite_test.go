package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadLiteConfig_EnvOverrides(t *testing.T) {
	t.Setenv("T2DM_DATA_DIR", "/tmp/advisor-data")
	t.Setenv("T2DM_LOG_LEVEL", "debug")
	t.Setenv("T2DM_LOG_FORMAT", "json")

	cfg := LoadLiteConfig()

	assert.Equal(t, "/tmp/advisor-data", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFeedbackDBPath(t *testing.T) {
	t.Setenv("T2DM_DATA_DIR", "/tmp/advisor-data")

	cfg := LoadLiteConfig()

	assert.Equal(t, "/tmp/advisor-data/feedback.db", cfg.FeedbackDBPath())
}
