package llm

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall represents a tool call chosen by the LLM.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolCallFunc `json:"function"`
}

// ToolCallFunc represents a function call within a tool call.
type ToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded argument object
}

// ToolPromptResult holds a single chat-completion round: optional free text
// and zero or more tool calls, in the order the model issued them.
type ToolPromptResult struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolPrompter is the contract the engine consumes from any LLM backend.
// Use this interface for dependency injection to enable mocking in tests.
type ToolPrompter interface {
	// Chat sends an ordered list of role-tagged messages and returns the
	// model's free-text reply.
	Chat(ctx context.Context, messages []Message) (string, error)

	// PromptWithTools sends messages plus advertised tool definitions and
	// returns the model's text and/or tool calls for one round. It never
	// executes tools itself; dispatch is the caller's job.
	PromptWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (*ToolPromptResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure concrete clients implement ToolPrompter at compile time.
var (
	_ ToolPrompter = (*Client)(nil)
	_ ToolPrompter = (*AnthropicClient)(nil)
	_ ToolPrompter = (*MockClient)(nil)
)
