package fields

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// Kind tags the primitive type a Scalar carries. The values double as the
// JSON-schema type names advertised to the LLM.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindBool    Kind = "bool"
)

// Scalar is a single-value leaf. Validation rules are pluggable strategies
// rather than subtypes, keeping the variant set closed.
type Scalar struct {
	meta      Meta
	kind      Kind
	value     any
	validator Validator
}

// NewString creates a string leaf with the default non-null validation.
func NewString(name, description string) *Scalar {
	return &Scalar{meta: newMeta(name, description), kind: KindString}
}

// NewInt creates an integer leaf with the default non-null validation.
func NewInt(name, description string) *Scalar {
	return &Scalar{meta: newMeta(name, description), kind: KindInteger}
}

// NewBool creates a boolean leaf with the default non-null validation.
func NewBool(name, description string) *Scalar {
	return &Scalar{meta: newMeta(name, description), kind: KindBool}
}

// NewPort creates an integer leaf accepting 0..65535.
func NewPort(name, description string) *Scalar {
	return NewInt(name, description).WithValidator(ValidatePort)
}

// NewIPv4 creates a string leaf accepting dotted-quad IPv4 addresses.
func NewIPv4(name, description string) *Scalar {
	return NewString(name, description).WithValidator(ValidateIPv4)
}

// NewIPv6 creates a string leaf accepting colon-hex IPv6 addresses.
func NewIPv6(name, description string) *Scalar {
	return NewString(name, description).WithValidator(ValidateIPv6)
}

// NewIP creates a string leaf accepting either IPv4 or IPv6 addresses.
func NewIP(name, description string) *Scalar {
	return NewString(name, description).WithValidator(ValidateIP)
}

// NewEmail creates a string leaf accepting local@domain addresses.
func NewEmail(name, description string) *Scalar {
	return NewString(name, description).WithValidator(ValidateEmail)
}

// NewURL creates a string leaf for URLs. Validation is deliberately
// permissive: operator-facing URLs for internal test servers are hard to
// validate generically.
func NewURL(name, description string) *Scalar {
	return NewString(name, description).WithValidator(ValidateURL)
}

// WithValidator replaces the leaf's validation strategy and returns the leaf
// for chaining in schema constructors.
func (s *Scalar) WithValidator(v Validator) *Scalar {
	s.validator = v
	return s
}

// WithValue pre-populates the leaf with a default value, bypassing
// validation. Intended for schema constructors only.
func (s *Scalar) WithValue(v any) *Scalar {
	s.value = v
	return s
}

// Meta implements Field.
func (s *Scalar) Meta() *Meta { return &s.meta }

// Kind returns the leaf's primitive type tag.
func (s *Scalar) Kind() Kind { return s.kind }

// Value returns the current value, nil if unset.
func (s *Scalar) Value() any { return s.value }

// SetValue validates and commits a candidate value. A failed validation
// leaves the current value unchanged and returns a *apperrors.ValidationError
// naming the field and the rejected candidate; it never silently drops the
// update.
func (s *Scalar) SetValue(candidate any) error {
	coerced, err := coerceToKind(s.kind, candidate)
	if err != nil {
		return apperrors.NewValidationError(s.meta.VariableName, candidate, err.Error())
	}

	if s.validator != nil {
		if err := s.validator(coerced); err != nil {
			return apperrors.NewValidationError(s.meta.VariableName, candidate, err.Error())
		}
	}

	s.value = coerced
	return nil
}

// Describe implements Field.
func (s *Scalar) Describe() map[string]any {
	if !s.meta.Visible {
		return map[string]any{}
	}
	return map[string]any{
		"variable_name": s.meta.VariableName,
		"description":   s.meta.Description,
		"value":         s.value,
	}
}

// ToJSON implements Field.
func (s *Scalar) ToJSON() any { return s.value }

// FillFromJSON implements Field; it routes through SetValue so persisted
// state is validated the same way live updates are.
func (s *Scalar) FillFromJSON(v any) error {
	return s.SetValue(v)
}

// Bindings implements Field: one set_value tool, or nothing while the setter
// is deactivated.
func (s *Scalar) Bindings(prefix string) []ToolBinding {
	if !s.meta.SetterActive {
		return nil
	}

	name := setterName(prefix, s.meta.VariableName)
	def := llm.NewToolDefinition(
		name,
		fmt.Sprintf("Update the %s", s.meta.VariableName),
		map[string]llm.ParameterProperty{
			"val": {
				Type:        string(s.kind),
				Description: fmt.Sprintf("the new %s", s.meta.VariableName),
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
			return s.SetValue(val)
		},
	}}
}

// Clone implements Field.
func (s *Scalar) Clone() Field {
	clone := *s
	return &clone
}

// DeactivateSetter implements Field.
func (s *Scalar) DeactivateSetter() { s.meta.deactivateSetter() }

// ActivateSetter implements Field.
func (s *Scalar) ActivateSetter() { s.meta.activateSetter() }

// SetVisible implements Field.
func (s *Scalar) SetVisible() { s.meta.setVisible() }

// SetInvisible implements Field.
func (s *Scalar) SetInvisible() { s.meta.setInvisible() }

// DecodeValArg extracts the "val" argument from a tool call's JSON arguments.
func DecodeValArg(argsJSON string) (any, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, fmt.Errorf("parse tool arguments: %w", err)
	}
	val, ok := args["val"]
	if !ok {
		return nil, fmt.Errorf("tool arguments missing %q", "val")
	}
	return val, nil
}

// coerceToKind normalizes a JSON-decoded candidate to the leaf's primitive
// type. JSON numbers arrive as float64; integral ones are accepted for
// integer leaves.
func coerceToKind(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("value must not be null")
	}

	switch kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return s, nil

	case KindInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != float64(int(n)) {
				return nil, fmt.Errorf("expected an integer, got %v", n)
			}
			return int(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("expected an integer, got %v", n)
			}
			return int(i), nil
		default:
			return nil, fmt.Errorf("expected an integer, got %T", v)
		}

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", v)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}
