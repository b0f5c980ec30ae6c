package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicClient provides access to Anthropic's Messages API behind the same
// ToolPrompter contract as the OpenAI-compatible Client.
type AnthropicClient struct {
	client      *anthropic.Client
	endpoint    string
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewAnthropicClient creates a new Anthropic-backed client.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.Endpoint))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, anthropic.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(cfg.APIKey, opts...),
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: float32(cfg.Temperature),
		logger:      logger.Named("llm-anthropic"),
	}, nil
}

// Chat sends the conversation and returns the model's free-text reply.
func (c *AnthropicClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.send(ctx, messages, nil)
	if err != nil {
		return "", err
	}

	text := c.extractText(resp)
	if text == "" {
		return "", NewErrorWithContext(ErrorTypeEmptyResponse, "model returned empty response", true, nil, c.model, c.endpoint, 0)
	}
	return text, nil
}

// PromptWithTools performs a single Messages round with tools advertised,
// returning text and/or tool calls without executing anything.
func (c *AnthropicClient) PromptWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (*ToolPromptResult, error) {
	anthTools := make([]anthropic.ToolDefinition, len(tools))
	for i, def := range tools {
		anthTools[i] = anthropic.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Parameters,
		}
	}

	resp, err := c.send(ctx, messages, anthTools)
	if err != nil {
		return nil, err
	}

	result := &ToolPromptResult{Content: c.extractText(resp)}
	for _, block := range resp.Content {
		if block.Type != anthropic.MessagesContentTypeToolUse || block.MessageContentToolUse == nil {
			continue
		}
		use := block.MessageContentToolUse
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:   use.ID,
			Type: "function",
			Function: ToolCallFunc{
				Name:      use.Name,
				Arguments: string(use.Input),
			},
		})
	}

	return result, nil
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *AnthropicClient) GetEndpoint() string {
	return c.endpoint
}

func (c *AnthropicClient) send(ctx context.Context, messages []Message, tools []anthropic.ToolDefinition) (*anthropic.MessagesResponse, error) {
	system, anthMessages := c.buildMessages(messages)

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    system,
		MaxTokens: c.maxTokens,
		Messages:  anthMessages,
		Tools:     tools,
	}
	if c.temperature > 0 {
		req.Temperature = &c.temperature
	}

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		c.logger.Error("Anthropic request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, c.parseError(err)
	}

	c.logger.Info("Anthropic request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &resp, nil
}

// buildMessages splits our role-tagged history into Anthropic's shape: leading
// system messages fold into the request-level system prompt, and system
// messages appearing mid-conversation (config state, remediation) are carried
// as user-role text so they stay in the model's context.
func (c *AnthropicClient) buildMessages(messages []Message) (string, []anthropic.Message) {
	var system string
	var result []anthropic.Message

	leading := true
	for _, msg := range messages {
		if msg.Role == RoleSystem && leading {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		leading = false

		role := anthropic.RoleUser
		if msg.Role == RoleAssistant {
			role = anthropic.RoleAssistant
		}

		text := msg.Content
		result = append(result, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{{Type: anthropic.MessagesContentTypeText, Text: &text}},
		})
	}

	return system, result
}

func (c *AnthropicClient) extractText(resp *anthropic.MessagesResponse) string {
	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	return cleanModelOutput(text)
}

func (c *AnthropicClient) parseError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewErrorWithContext(ErrorTypeTimeout, "request timed out", true, err, c.model, c.endpoint, 0)
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(apiErr)
		errType := ErrorTypeBadRequest
		retryable := false
		switch {
		case apiErr.IsAuthenticationErr() || apiErr.IsPermissionErr():
			errType = ErrorTypeAuth
		case apiErr.IsRateLimitErr():
			errType, retryable = ErrorTypeRateLimit, true
		case apiErr.IsApiErr() || apiErr.IsOverloadedErr():
			errType, retryable = ErrorTypeConnection, true
		}
		return NewErrorWithContext(errType, string(body), retryable, err, c.model, c.endpoint, 0)
	}

	return NewErrorWithContext(ErrorTypeConnection, "request failed", true, err, c.model, c.endpoint, 0)
}
