package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for values the pipeline cannot run with.
// It collects all problems rather than stopping at the first.
func (c *Config) Validate() error {
	var problems []string

	if c.OpenAIAPIKey == "" && c.AnthropicAPIKey == "" {
		problems = append(problems, "no model credential configured: set OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}
	if c.MaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("max_retries must not be negative, got %d", c.MaxRetries))
	}
	if c.MaxIterations < 1 {
		problems = append(problems, fmt.Sprintf("max_iterations must be at least 1, got %d", c.MaxIterations))
	}
	if c.TimeoutSeconds < 1 {
		problems = append(problems, fmt.Sprintf("timeout_seconds must be at least 1, got %d", c.TimeoutSeconds))
	}
	if c.NewsResults < 1 {
		problems = append(problems, fmt.Sprintf("news_results must be at least 1, got %d", c.NewsResults))
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("log_level must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), c.LogLevel))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
