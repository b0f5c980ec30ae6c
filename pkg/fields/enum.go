package fields

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// EnumOption pairs a display key with the underlying value it stands for.
type EnumOption struct {
	Key   string
	Value any
}

// Enum is a leaf whose value is selected from a fixed, ordered set of
// display keys, each mapping to an underlying wire value.
type Enum struct {
	meta    Meta
	options []EnumOption
	key     string // "" until a selection is made
}

// NewEnum creates an enum leaf with the given ordered options.
func NewEnum(name, description string, options ...EnumOption) *Enum {
	return &Enum{meta: newMeta(name, description), options: options}
}

// WithKey pre-selects a display key, for schema defaults.
func (e *Enum) WithKey(key string) *Enum {
	e.key = key
	return e
}

// Meta implements Field.
func (e *Enum) Meta() *Meta { return &e.meta }

// Key returns the currently selected display key, "" if unset.
func (e *Enum) Key() string { return e.key }

// Keys returns the display keys in declaration order.
func (e *Enum) Keys() []string {
	keys := make([]string, len(e.options))
	for i, opt := range e.options {
		keys[i] = opt.Key
	}
	return keys
}

// Value returns the underlying value for the current selection, nil if unset.
func (e *Enum) Value() any {
	for _, opt := range e.options {
		if opt.Key == e.key {
			return opt.Value
		}
	}
	return nil
}

// SetValue selects a display key. A candidate outside the option set leaves
// the selection unchanged and returns a *apperrors.ValidationError.
func (e *Enum) SetValue(candidate any) error {
	key, ok := candidate.(string)
	if !ok {
		return apperrors.NewValidationError(e.meta.VariableName, candidate, "selector option must be a string")
	}
	for _, opt := range e.options {
		if opt.Key == key {
			e.key = key
			return nil
		}
	}
	return apperrors.NewValidationError(e.meta.VariableName, candidate, "selector option is not available")
}

// Describe implements Field; the reported value is the resolved underlying
// value, not the display key.
func (e *Enum) Describe() map[string]any {
	if !e.meta.Visible {
		return map[string]any{}
	}
	return map[string]any{
		"variable_name": e.meta.VariableName,
		"description":   e.meta.Description,
		"value":         e.Value(),
	}
}

// ToJSON implements Field.
func (e *Enum) ToJSON() any { return e.Value() }

// FillFromJSON implements Field: reverse-maps an underlying value back to its
// display key. An unmapped value is a structural mismatch.
func (e *Enum) FillFromJSON(v any) error {
	for _, opt := range e.options {
		if jsonValueEqual(opt.Value, v) {
			e.key = opt.Key
			return nil
		}
	}
	return apperrors.NewStructuralError(e.meta.VariableName, "a mapped enum value", v)
}

// Bindings implements Field. The parameter is always declared as a string and
// the description enumerates the valid display keys verbatim so the model is
// constrained to choose among them.
func (e *Enum) Bindings(prefix string) []ToolBinding {
	if !e.meta.SetterActive {
		return nil
	}

	name := setterName(prefix, e.meta.VariableName)
	def := llm.NewToolDefinition(
		name,
		fmt.Sprintf("Select value for selector %s. Available values are %s",
			e.meta.VariableName, strings.Join(e.Keys(), " ")),
		map[string]llm.ParameterProperty{
			"val": {
				Type:        "string",
				Description: fmt.Sprintf("Selected option from selector %s", e.meta.VariableName),
			},
		},
		[]string{"val"},
	)

	return []ToolBinding{{
		Name:       name,
		Definition: def,
		Invoke: func(_ context.Context, argsJSON string) error {
			val, err := DecodeValArg(argsJSON)
			if err != nil {
				return err
			}
			return e.SetValue(val)
		},
	}}
}

// Clone implements Field.
func (e *Enum) Clone() Field {
	clone := *e
	clone.options = append([]EnumOption(nil), e.options...)
	return &clone
}

// DeactivateSetter implements Field.
func (e *Enum) DeactivateSetter() { e.meta.deactivateSetter() }

// ActivateSetter implements Field.
func (e *Enum) ActivateSetter() { e.meta.activateSetter() }

// SetVisible implements Field.
func (e *Enum) SetVisible() { e.meta.setVisible() }

// SetInvisible implements Field.
func (e *Enum) SetInvisible() { e.meta.setInvisible() }

// jsonValueEqual compares an option value with a JSON-decoded candidate.
// Numbers are compared numerically since decoding turns ints into float64.
func jsonValueEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af == bf
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
