package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/fields"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// Extractor runs the data-extraction half of a turn: it advertises the
// model's current tool surface to the LLM, dispatches whatever tool calls
// come back and records the outcome in the ledger.
type Extractor struct {
	model  *apps.AppModel
	client llm.ToolPrompter
	logger *zap.Logger
}

// NewExtractor creates an extractor over the session's app model.
func NewExtractor(model *apps.AppModel, client llm.ToolPrompter, logger *zap.Logger) *Extractor {
	return &Extractor{
		model:  model,
		client: client,
		logger: logger.Named("extractor"),
	}
}

// UpdateData performs one extraction round against the ledger's latest user
// message. Tool calls are dispatched in the order the model issued them; a
// validation failure becomes a remediation message instead of aborting the
// batch, and an unknown tool name fails the turn, that is a protocol error.
// A config snapshot is recorded whether or not anything changed, and any
// remediation messages are appended as system prompts for the next turn.
// Returns the remediation messages of this round.
func (e *Extractor) UpdateData(ctx context.Context, ledger *Ledger) ([]string, error) {
	// tool names shift as list items appear, rebuild every round
	bindings := e.model.Bindings()
	invokers := make(map[string]fields.ToolBinding, len(bindings))
	tools := make([]llm.ToolDefinition, len(bindings))
	for i, b := range bindings {
		invokers[b.Name] = b
		tools[i] = b.Definition
	}

	userMsg, ok := ledger.LatestPrompt(llm.RoleUser)
	if !ok {
		return nil, fmt.Errorf("no user message to extract from")
	}

	result, err := e.client.PromptWithTools(ctx, []llm.Message{userMsg}, tools)
	if err != nil {
		return nil, fmt.Errorf("extraction prompt: %w", err)
	}

	var remediations []string
	for _, call := range result.ToolCalls {
		binding, known := invokers[call.Function.Name]
		if !known {
			return nil, fmt.Errorf("tool %q: %w", call.Function.Name, apperrors.ErrUnknownTool)
		}

		err := binding.Invoke(ctx, call.Function.Arguments)
		var verr *apperrors.ValidationError
		switch {
		case err == nil:
			e.logger.Debug("tool call applied", zap.String("tool", call.Function.Name))
		case errors.As(err, &verr):
			e.logger.Info("tool call rejected",
				zap.String("tool", call.Function.Name),
				zap.String("field", verr.Field),
				zap.Any("value", verr.Value))
			remediations = append(remediations, remediationMessage(verr))
		default:
			return nil, fmt.Errorf("tool %s: %w", call.Function.Name, err)
		}
	}

	for _, msg := range remediations {
		ledger.AddPrompt(llm.RoleSystem, msg)
	}
	ledger.AddConfig(e.model)

	return remediations, nil
}

// remediationMessage phrases a rejected value so the model re-asks the user
// on the next turn.
func remediationMessage(verr *apperrors.ValidationError) string {
	return fmt.Sprintf(
		"The value %v was rejected for field %s: %s. Ask the user for a corrected value.",
		verr.Value, verr.Field, verr.Reason)
}
