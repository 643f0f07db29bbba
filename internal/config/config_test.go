package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"PORT", "GIN_MODE", "MAX_UPLOAD_MB", "OPS_PORT", "DATABASE_URL",
	"USE_LLM", "LLM_PROVIDER", "DEEPINFRA_API_KEY", "LLM_BASE_URL",
	"LLM_MODEL", "LLM_MODE", "LLM_MIN_MISSING_FIELDS", "LLM_BATCH_SIZE",
	"LLM_CONCURRENCY", "LLM_TIMEOUT",
}

// clearEnv blanks every config key so ambient environment cannot leak
// into assertions. Empty values read as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.Equal(t, "8081", cfg.Ops.Port)
	assert.Empty(t, cfg.Database.URL)

	assert.False(t, cfg.Enrichment.Enabled)
	assert.Equal(t, "deepinfra", cfg.Enrichment.Provider)
	assert.Equal(t, "openai/gpt-oss-120b", cfg.Enrichment.Model)
	assert.Equal(t, "fallback", cfg.Enrichment.Mode)
	assert.Equal(t, 3, cfg.Enrichment.MinMissingFields)
	assert.Equal(t, 5, cfg.Enrichment.BatchSize)
	assert.Equal(t, 2, cfg.Enrichment.Concurrency)
	assert.Equal(t, 60*time.Second, cfg.Enrichment.Timeout)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_UPLOAD_MB", "50")
	t.Setenv("DATABASE_URL", "postgres://localhost/schedex")
	t.Setenv("USE_LLM", "true")
	t.Setenv("DEEPINFRA_API_KEY", "test-key")
	t.Setenv("LLM_MODE", "refine")
	t.Setenv("LLM_MODEL", "meta-llama/llama-3.3-70b")
	t.Setenv("LLM_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.MaxUploadMB)
	assert.Equal(t, "postgres://localhost/schedex", cfg.Database.URL)
	assert.True(t, cfg.Enrichment.Enabled)
	assert.Equal(t, "test-key", cfg.Enrichment.APIKey)
	assert.Equal(t, "refine", cfg.Enrichment.Mode)
	assert.Equal(t, "meta-llama/llama-3.3-70b", cfg.Enrichment.Model)
	assert.Equal(t, 90*time.Second, cfg.Enrichment.Timeout)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "llm enabled without key",
			env:     map[string]string{"USE_LLM": "true"},
			wantErr: "DEEPINFRA_API_KEY",
		},
		{
			name:    "unknown mode",
			env:     map[string]string{"LLM_MODE": "aggressive"},
			wantErr: "LLM_MODE",
		},
		{
			name:    "zero upload cap",
			env:     map[string]string{"MAX_UPLOAD_MB": "0"},
			wantErr: "MAX_UPLOAD_MB",
		},
		{
			name:    "zero batch size",
			env:     map[string]string{"LLM_BATCH_SIZE": "0"},
			wantErr: "LLM_BATCH_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SCHEDEX_TEST_INT", "not a number")
	assert.Equal(t, 7, getEnvIntOrDefault("SCHEDEX_TEST_INT", 7))

	t.Setenv("SCHEDEX_TEST_BOOL", "yes please")
	assert.True(t, getEnvBoolOrDefault("SCHEDEX_TEST_BOOL", true))

	t.Setenv("SCHEDEX_TEST_DUR", "soon")
	assert.Equal(t, time.Minute, getEnvDurationOrDefault("SCHEDEX_TEST_DUR", time.Minute))
}
