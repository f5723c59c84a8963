package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ats-screener/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "artifacts/weights.txt", cfg.WeightsPath)
	assert.Equal(t, "artifacts/bias.txt", cfg.BiasPath)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.Equal(t, 45*time.Second, cfg.AnalyzerTimeout)
	assert.Equal(t, 6000, cfg.PromptTokenBudget)
	assert.Equal(t, int64(10), cfg.MaxUploadMB)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.AIEnabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("AI_API_KEY", "sk-test")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.IsTest())
	assert.True(t, cfg.AIEnabled())

	// test environment shortens backoff for fast tests
	maxElapsed, initial, maxInt, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, 5*time.Second, maxElapsed)
	assert.Equal(t, 100*time.Millisecond, initial)
	assert.Equal(t, time.Second, maxInt)
	assert.Equal(t, 2.0, mult)
}
