package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Provider names accepted by NewFromProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewFromProvider creates a ToolPrompter for the named provider.
// "openai" covers any OpenAI-compatible endpoint (hosted or local),
// "anthropic" uses the Messages API.
func NewFromProvider(provider string, cfg *Config, logger *zap.Logger) (ToolPrompter, error) {
	switch provider {
	case ProviderOpenAI, "":
		return NewClient(cfg, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
