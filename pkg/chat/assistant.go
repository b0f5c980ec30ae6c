package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// Assistant runs one full conversation turn: record the user message,
// extract config values through tool calls, then generate the natural
// language reply against the windowed history.
type Assistant struct {
	ledger       *Ledger
	extractor    *Extractor
	client       llm.ToolPrompter
	historyPairs int
	logger       *zap.Logger
}

// NewAssistant wires the assistant for one session. historyPairs bounds how
// many old user/assistant pairs the reply prompt carries.
func NewAssistant(ledger *Ledger, extractor *Extractor, client llm.ToolPrompter, historyPairs int, logger *zap.Logger) *Assistant {
	if historyPairs < 0 {
		historyPairs = 0
	}
	return &Assistant{
		ledger:       ledger,
		extractor:    extractor,
		client:       client,
		historyPairs: historyPairs,
		logger:       logger.Named("assistant"),
	}
}

// TurnResult is everything one user message produced.
type TurnResult struct {
	Reply        string
	Remediations []string
}

// HandleMessage processes one user message to completion. The message and
// the reply are both recorded in the ledger; remediation messages from
// rejected tool calls are surfaced to the caller as well.
func (a *Assistant) HandleMessage(ctx context.Context, text string) (*TurnResult, error) {
	a.ledger.AddPrompt(llm.RoleUser, text)

	remediations, err := a.extractor.UpdateData(ctx, a.ledger)
	if err != nil {
		return nil, fmt.Errorf("update data: %w", err)
	}

	reply, err := a.client.Chat(ctx, a.ledger.PromptForLLM(a.historyPairs))
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}
	a.ledger.AddPrompt(llm.RoleAssistant, reply)

	a.logger.Debug("turn complete",
		zap.Int("remediations", len(remediations)),
		zap.Int("prompts", len(a.ledger.Prompts())))

	return &TurnResult{Reply: reply, Remediations: remediations}, nil
}

// Ledger exposes the session's conversation record.
func (a *Assistant) Ledger() *Ledger {
	return a.ledger
}
