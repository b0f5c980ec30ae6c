package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client provides access to OpenAI-compatible LLM endpoints.
type Client struct {
	client      *openai.Client
	endpoint    string
	model       string
	temperature float32
	logger      *zap.Logger
}

// Config holds configuration for creating an LLM client.
type Config struct {
	Endpoint    string        // Base URL, e.g., "https://api.openai.com/v1"
	Model       string        // Model name, e.g., "gpt-4o"
	APIKey      string        // Optional for local endpoints
	Temperature float64       // 0 uses the backend default
	MaxTokens   int           // Upper bound for completion tokens (Anthropic requires it)
	Timeout     time.Duration // Per-request cap on the HTTP call; 0 means no timeout
}

// NewClient creates a new OpenAI-compatible LLM client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		logger:      logger.Named("llm"),
	}, nil
}

// Chat sends the conversation and returns the model's free-text reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.buildOpenAIMessages(messages),
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", c.parseError(err)
	}

	if len(resp.Choices) == 0 {
		return "", c.emptyResponseError()
	}

	content := cleanModelOutput(resp.Choices[0].Message.Content)
	if content == "" {
		return "", c.emptyResponseError()
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}

// PromptWithTools performs a single chat-completion round with the given tool
// definitions advertised. It returns the model's text and/or tool calls; the
// caller dispatches the calls against its own state.
func (c *Client) PromptWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (*ToolPromptResult, error) {
	start := time.Now()

	c.logger.Debug("LLM tool request",
		zap.String("model", c.model),
		zap.Int("message_count", len(messages)),
		zap.Int("tool_count", len(tools)))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.buildOpenAIMessages(messages),
		Temperature: c.temperature,
		Tools:       c.buildOpenAITools(tools),
	})
	if err != nil {
		return nil, c.parseError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, c.emptyResponseError()
	}

	choice := resp.Choices[0]
	content := choice.Message.Content

	// Check for text-based tool calls if the model returned no native ones.
	var toolCalls []ToolCall
	if len(choice.Message.ToolCalls) == 0 && content != "" {
		toolCalls = parseTextToolCalls(content)
		if len(toolCalls) > 0 {
			content = cleanModelOutput(content)
		}
	} else {
		for _, tc := range choice.Message.ToolCalls {
			toolCalls = append(toolCalls, ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: ToolCallFunc{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
	}

	c.logger.Info("LLM tool request completed",
		zap.Int("tool_calls", len(toolCalls)),
		zap.Int("content_length", len(content)),
		zap.Duration("elapsed", time.Since(start)))

	return &ToolPromptResult{Content: content, ToolCalls: toolCalls}, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}

func (c *Client) emptyResponseError() error {
	return NewErrorWithContext(ErrorTypeEmptyResponse, "model returned empty response", true, nil, c.model, c.endpoint, 0)
}

// buildOpenAIMessages converts our message format to OpenAI format.
func (c *Client) buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return result
}

// buildOpenAITools converts our tool definitions to OpenAI format.
func (c *Client) buildOpenAITools(tools []ToolDefinition) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.Tool, len(tools))
	for i, def := range tools {
		paramsJSON, _ := json.Marshal(def.Parameters)
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  json.RawMessage(paramsJSON),
			},
		}
	}

	return result
}

var (
	textToolCallRegex = regexp.MustCompile(`<tool_call>\s*(\{[\s\S]*?\})\s*</tool_call>`)
	thinkBlockRegex   = regexp.MustCompile(`<think>[\s\S]*?</think>`)
	toolCallBlock     = regexp.MustCompile(`<tool_call>[\s\S]*?</tool_call>`)
	multiNewlineRegex = regexp.MustCompile(`\n{3,}`)
)

// parseTextToolCalls parses tool calls from text output, for models without
// native tool calling that emit <tool_call>{"name": ..., "arguments": {...}}</tool_call>.
func parseTextToolCalls(content string) []ToolCall {
	var toolCalls []ToolCall

	matches := textToolCallRegex.FindAllStringSubmatch(content, -1)
	for i, match := range matches {
		if len(match) < 2 {
			continue
		}

		var toolCallJSON struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal([]byte(match[1]), &toolCallJSON); err != nil {
			continue
		}

		argsJSON, err := json.Marshal(toolCallJSON.Arguments)
		if err != nil {
			continue
		}

		toolCalls = append(toolCalls, ToolCall{
			ID:   fmt.Sprintf("text_tool_%d", i),
			Type: "function",
			Function: ToolCallFunc{
				Name:      toolCallJSON.Name,
				Arguments: string(argsJSON),
			},
		})
	}

	return toolCalls
}

// cleanModelOutput removes tool call markup and thinking blocks from model output.
func cleanModelOutput(content string) string {
	content = thinkBlockRegex.ReplaceAllString(content, "")
	content = toolCallBlock.ReplaceAllString(content, "")
	content = multiNewlineRegex.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
