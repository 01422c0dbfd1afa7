package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_TEMPERATURE",
		"OPENAI_TIMEOUT", "LLM_TRANSPORT_RETRIES", "LLM_REPAIR_ATTEMPTS",
		"BATCH_CONCURRENCY", "BATCH_RATE_PER_SECOND", "DB_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, float32(0.1), cfg.LLM.Temperature)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.LLM.TransportRetries)
	assert.Equal(t, 1, cfg.LLM.RepairAttempts)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Zero(t, cfg.Batch.RatePerSecond)
	assert.Empty(t, cfg.Store.DSN)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TIMEOUT", "90s")
	t.Setenv("LLM_REPAIR_ATTEMPTS", "3")
	t.Setenv("BATCH_CONCURRENCY", "8")
	t.Setenv("DB_URL", "postgres://localhost/extractions")

	cfg := LoadConfig()
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.RepairAttempts)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "postgres://localhost/extractions", cfg.Store.DSN)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("LLM_TRANSPORT_RETRIES", "many")
	t.Setenv("OPENAI_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 2, cfg.LLM.TransportRetries)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := LoadConfig()
	require.Error(t, cfg.Validate())

	cfg.LLM.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}
