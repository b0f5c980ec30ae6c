package llm

import "context"

// MockClient is a configurable mock for testing LLM-dependent code.
// Set the function fields to control behavior in tests.
type MockClient struct {
	// ChatFunc is called when Chat is invoked.
	// If nil, returns an empty string and nil error.
	ChatFunc func(ctx context.Context, messages []Message) (string, error)

	// PromptWithToolsFunc is called when PromptWithTools is invoked.
	// If nil, returns an empty result and nil error.
	PromptWithToolsFunc func(ctx context.Context, messages []Message, tools []ToolDefinition) (*ToolPromptResult, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	// Call tracking for verification
	ChatCalls            int
	PromptWithToolsCalls int

	// LastMessages and LastTools record the most recent PromptWithTools input.
	LastMessages []Message
	LastTools    []ToolDefinition
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// Chat implements ToolPrompter.
func (m *MockClient) Chat(ctx context.Context, messages []Message) (string, error) {
	m.ChatCalls++
	m.LastMessages = messages
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return "", nil
}

// PromptWithTools implements ToolPrompter.
func (m *MockClient) PromptWithTools(ctx context.Context, messages []Message, tools []ToolDefinition) (*ToolPromptResult, error) {
	m.PromptWithToolsCalls++
	m.LastMessages = messages
	m.LastTools = tools
	if m.PromptWithToolsFunc != nil {
		return m.PromptWithToolsFunc(ctx, messages, tools)
	}
	return &ToolPromptResult{}, nil
}

// GetModel implements ToolPrompter.
func (m *MockClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetEndpoint implements ToolPrompter.
func (m *MockClient) GetEndpoint() string {
	if m.Endpoint == "" {
		return "http://mock-endpoint"
	}
	return m.Endpoint
}

// Reset clears call tracking.
func (m *MockClient) Reset() {
	m.ChatCalls = 0
	m.PromptWithToolsCalls = 0
	m.LastMessages = nil
	m.LastTools = nil
}
