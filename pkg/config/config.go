// Package config loads the engine configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for edgepilot-engine.
// Environment variables always override YAML values for fields that support
// both. Secrets (API keys, client secrets) must only come from environment
// variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// SessionSecret signs the chat session cookies.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET" env-default:"dev-only-secret"` // Secret - not in YAML

	LLM  LLMConfig  `yaml:"llm"`
	IEM  IEMConfig  `yaml:"iem"`
	Chat ChatConfig `yaml:"chat"`
}

// LLMConfig holds the chat-completion backend configuration.
type LLMConfig struct {
	// Provider selects the backend: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`

	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	MaxTokens      int     `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"4096"`
	Temperature    float32 `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0"`
	TimeoutSeconds int     `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"120"`
}

// Timeout returns the per-request completion timeout as a duration.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IEMConfig holds the management portal connection settings.
type IEMConfig struct {
	// BaseURL is the portal API root, e.g. https://iem.example.com/portal/api/v1
	BaseURL string `yaml:"base_url" env:"IEM_BASE_URL" env-default:""`
	// PortalURL is the portal service root used for device details.
	PortalURL string `yaml:"portal_url" env:"IEM_PORTAL_URL" env-default:""`
	// TokenURL is the full client-credentials token endpoint.
	TokenURL string `yaml:"token_url" env:"IEM_TOKEN_URL" env-default:""`

	ClientID     string `yaml:"client_id" env:"IEM_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"-" env:"IEM_CLIENT_SECRET"` // Secret - not in YAML

	TimeoutSeconds int `yaml:"timeout_seconds" env:"IEM_TIMEOUT_SECONDS" env-default:"30"`
}

// Timeout returns the portal HTTP timeout as a duration.
func (c *IEMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsConfigured reports whether the portal connection is usable.
func (c *IEMConfig) IsConfigured() bool {
	return c.BaseURL != "" && c.ClientID != "" && c.ClientSecret != ""
}

// ChatConfig holds conversation settings.
type ChatConfig struct {
	// HistoryPairs is how many old user/assistant pairs the reply prompt
	// carries, bounding token usage.
	HistoryPairs int `yaml:"history_pairs" env:"CHAT_HISTORY_PAIRS" env-default:"1"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if cfg.Chat.HistoryPairs < 0 {
		return nil, fmt.Errorf("chat.history_pairs must not be negative")
	}

	return cfg, nil
}
