// Package chat drives one configuration conversation: the prompt/config
// history ledger, the tool-call dispatcher and the assistant loop on top.
package chat

import (
	"encoding/json"
	"fmt"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// Ledger is the append-only conversation record of one session: every
// role-tagged prompt plus a config snapshot per completed turn. Entries are
// never deleted or reordered.
type Ledger struct {
	systemPrompt string
	prompts      []llm.Message
	configs      []*apps.AppModel
}

// NewLedger creates a ledger seeded with the fixed system prompt and an
// initial snapshot of the model.
func NewLedger(systemPrompt string, model *apps.AppModel) *Ledger {
	return &Ledger{
		systemPrompt: systemPrompt,
		configs:      []*apps.AppModel{model.Clone()},
	}
}

// AddPrompt appends a role-tagged message.
func (l *Ledger) AddPrompt(role, content string) {
	l.prompts = append(l.prompts, llm.Message{Role: role, Content: content})
}

// AddConfig appends a config snapshot. Callers pass the live model; the
// ledger clones it so later mutations never rewrite history.
func (l *Ledger) AddConfig(model *apps.AppModel) {
	l.configs = append(l.configs, model.Clone())
}

// Prompts returns the full prompt history in order.
func (l *Ledger) Prompts() []llm.Message {
	return l.prompts
}

// LatestPrompt returns the most recent message with the given role, scanning
// from the end. The second return is false when no such message exists,
// which callers must treat distinctly from a message with empty content.
func (l *Ledger) LatestPrompt(role string) (llm.Message, bool) {
	for i := len(l.prompts) - 1; i >= 0; i-- {
		if l.prompts[i].Role == role {
			return l.prompts[i], true
		}
	}
	return llm.Message{}, false
}

// LatestConfig returns the most recent config snapshot.
func (l *Ledger) LatestConfig() *apps.AppModel {
	return l.configs[len(l.configs)-1]
}

// configMessage renders the freshest snapshot as a system message so the
// model is anchored to current config state.
func (l *Ledger) configMessage() llm.Message {
	described, err := json.Marshal(l.LatestConfig().Describe())
	if err != nil {
		described = []byte(fmt.Sprintf("%v", l.LatestConfig().Describe()))
	}
	return llm.Message{
		Role:    llm.RoleSystem,
		Content: "The current configuration is: " + string(described),
	}
}

// PromptForLLM builds the bounded context window for the next completion:
// the fixed system prompt, then the most recent slice of history with a
// config message at the head of the window, before each assistant turn and
// once more at the very end. Walks backward until nPairs+1 user messages are
// included (the +1 is the new, not-yet-answered user turn) or history runs
// out. Every injected config message renders the freshest snapshot.
func (l *Ledger) PromptForLLM(nPairs int) []llm.Message {
	window := []llm.Message{l.configMessage()}

	userCount := 0
	for i := len(l.prompts) - 1; i >= 0 && userCount < nPairs+1; i-- {
		msg := l.prompts[i]
		window = append([]llm.Message{msg}, window...)
		switch msg.Role {
		case llm.RoleUser:
			userCount++
		case llm.RoleAssistant:
			window = append([]llm.Message{l.configMessage()}, window...)
		}
	}
	window = append([]llm.Message{l.configMessage()}, window...)

	out := make([]llm.Message, 0, len(window)+1)
	if l.systemPrompt != "" {
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: l.systemPrompt})
	}
	return append(out, window...)
}
