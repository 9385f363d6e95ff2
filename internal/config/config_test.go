package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_WithValidConfig(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "GROQ_API_KEY", "gsk_test")
	setEnv(t, "LLM_TIMEOUT_SECONDS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.HasClassifier())
}

func TestLoad_MissingAPIKeyIsNotFatal(t *testing.T) {
	setEnv(t, "GROQ_API_KEY", "")
	setEnv(t, "PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasClassifier())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid config",
			config: Config{
				Port:         "8080",
				RateLimitRPS: 100,
				LLMTimeout:   30 * time.Second,
			},
			wantErr: "",
		},
		{
			name: "empty port",
			config: Config{
				Port:         "",
				RateLimitRPS: 100,
				LLMTimeout:   30 * time.Second,
			},
			wantErr: "PORT must not be empty",
		},
		{
			name: "non-numeric port",
			config: Config{
				Port:         "eighty",
				RateLimitRPS: 100,
				LLMTimeout:   30 * time.Second,
			},
			wantErr: "PORT must be numeric",
		},
		{
			name: "zero rate limit",
			config: Config{
				Port:         "8080",
				RateLimitRPS: 0,
				LLMTimeout:   30 * time.Second,
			},
			wantErr: "RATE_LIMIT_RPS must be positive",
		},
		{
			name: "zero classifier timeout",
			config: Config{
				Port:         "8080",
				RateLimitRPS: 100,
			},
			wantErr: "LLM_TIMEOUT_SECONDS must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestGetEnv(t *testing.T) {
	setEnv(t, "TEST_VAR", "custom_value")

	assert.Equal(t, "custom_value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", getEnv("NONEXISTENT_VAR", "default"))
}

func TestGetEnvInt64(t *testing.T) {
	setEnv(t, "TEST_INT", "42")
	setEnv(t, "TEST_INVALID", "not_a_number")

	assert.Equal(t, int64(42), getEnvInt64("TEST_INT", 0))
	assert.Equal(t, int64(99), getEnvInt64("NONEXISTENT_VAR", 99))
	assert.Equal(t, int64(99), getEnvInt64("TEST_INVALID", 99)) // Falls back on parse error
}
