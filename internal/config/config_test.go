package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		OpenAIAPIKey:   "sk-test",
		Model:          "gpt-4o-mini",
		MaxRetries:     3,
		MaxIterations:  3,
		TimeoutSeconds: 30,
		NewsResults:    5,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINMESH_OPENAI_API_KEY", "sk-env")

	// An explicit but missing config file is an error.
	_, err := NewLoader().WithConfigFile("/nonexistent-but-unused").Load()
	require.Error(t, err)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 3, cfg.MaxIterations)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 5, cfg.NewsResults)
	assert.False(t, cfg.AutoApprove)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "financial_agent.log", cfg.LogFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FINMESH_MAX_ITERATIONS", "5")
	t.Setenv("FINMESH_AUTO_APPROVE", "true")
	t.Setenv("FINMESH_LOG_LEVEL", "debug")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxIterations)
	assert.True(t, cfg.AutoApprove)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadUnprefixedCredentialFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-bare")
	t.Setenv("TAVILY_API_KEY", "tvly-bare")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-bare", cfg.OpenAIAPIKey)
	assert.Equal(t, "tvly-bare", cfg.TavilyAPIKey)
}

func TestLoadPrefixedCredentialWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-bare")
	t.Setenv("FINMESH_OPENAI_API_KEY", "sk-prefixed")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-prefixed", cfg.OpenAIAPIKey)
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRequiresModelCredential(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAIAPIKey = ""
	cfg.AnthropicAPIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model credential")
}

func TestValidateAnthropicKeyAlone(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAIAPIKey = ""
	cfg.AnthropicAPIKey = "sk-ant"

	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.MaxIterations = 0
	cfg.TimeoutSeconds = 0
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_iterations")
	assert.Contains(t, err.Error(), "timeout_seconds")
	assert.Contains(t, err.Error(), "log_level")
}
