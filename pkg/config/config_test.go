package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 60, cfg.Gemini.RateLimitRPM)
	assert.Equal(t, "medical_knowledge_base.json", cfg.Knowledge.BaseFile)
	assert.Equal(t, []string{"physician", "supervisor", "director"}, cfg.Approval.Chain)
	assert.Equal(t, 0.6, cfg.Approval.ConfidenceThreshold)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("APPROVAL_CHAIN", "nurse, attending ,chief")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.8")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, []string{"nurse", "attending", "chief"}, cfg.Approval.Chain)
	assert.Equal(t, 0.8, cfg.Approval.ConfidenceThreshold)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("CONFIDENCE_THRESHOLD", "high")
	t.Setenv("APPROVAL_CHAIN", " , ,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.6, cfg.Approval.ConfidenceThreshold)
	assert.Equal(t, []string{"physician", "supervisor", "director"}, cfg.Approval.Chain)
}
