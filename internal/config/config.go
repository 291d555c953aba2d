// Package config loads runtime configuration from the environment and an
// optional config file, with sane defaults for everything that is not a
// credential.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	TavilyAPIKey    string `mapstructure:"tavily_api_key"`

	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	MaxRetries     int  `mapstructure:"max_retries"`
	MaxIterations  int  `mapstructure:"max_iterations"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	NewsResults    int  `mapstructure:"news_results"`
	AutoApprove    bool `mapstructure:"auto_approve"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "FINMESH",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (FINMESH_*)
// 3. Config file (.finmesh.yaml in current directory or ~/.config/finmesh)
// 4. Defaults
//
// The conventional unprefixed credential variables OPENAI_API_KEY,
// ANTHROPIC_API_KEY and TAVILY_API_KEY are honored as a fallback when the
// prefixed form is not set.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".finmesh")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "finmesh"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyCredentialFallbacks(&cfg)

	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	// Credentials default to empty so the env override path sees the keys.
	l.v.SetDefault("openai_api_key", "")
	l.v.SetDefault("anthropic_api_key", "")
	l.v.SetDefault("tavily_api_key", "")

	l.v.SetDefault("model", "gpt-4o-mini")
	l.v.SetDefault("temperature", 0.1)
	l.v.SetDefault("max_tokens", 1000)

	l.v.SetDefault("max_retries", 3)
	l.v.SetDefault("max_iterations", 3)
	l.v.SetDefault("timeout_seconds", 30)
	l.v.SetDefault("news_results", 5)
	l.v.SetDefault("auto_approve", false)

	l.v.SetDefault("log_level", "info")
	l.v.SetDefault("log_format", "json")
	l.v.SetDefault("log_file", "financial_agent.log")
}

func applyCredentialFallbacks(cfg *Config) {
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.TavilyAPIKey == "" {
		cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	}
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
