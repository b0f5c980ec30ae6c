// Package fields implements the recursive, self-describing configuration
// field tree: typed leaves and composites that validate and set their own
// values, describe themselves as LLM-callable tools, and round-trip through
// plain JSON.
package fields

import (
	"context"
	"strings"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// Field is the contract every node in a configuration tree implements.
// The concrete variant set is closed: Scalar, Enum, List, Nested.
type Field interface {
	// Meta returns the node's shared metadata.
	Meta() *Meta

	// Describe returns the node's prompt-facing representation: variable
	// name, description and current value, recursing into visible children.
	// Hidden nodes describe as an empty map.
	Describe() map[string]any

	// ToJSON returns the node's raw value shape: scalars emit their value,
	// nested nodes emit objects, lists emit arrays. Hidden children are
	// dropped, so trees with hidden fields do not round-trip.
	ToJSON() any

	// FillFromJSON is the inverse of ToJSON. Leaves set their value through
	// validation; composites recurse. A shape mismatch returns a
	// *apperrors.StructuralError.
	FillFromJSON(v any) error

	// Bindings walks the node and returns one tool binding per settable
	// leaf, plus create-item bindings for lists. Regenerate after every
	// mutation that can change tree shape; never cache across turns.
	Bindings(prefix string) []ToolBinding

	// Clone returns a deep copy of the node and its current values.
	Clone() Field

	// Setter-enablement and visibility toggles. Composites propagate to
	// their children. ActivateSetter is a no-op on a hidden node.
	DeactivateSetter()
	ActivateSetter()
	SetVisible()
	SetInvisible()
}

// Meta carries the metadata every field node shares.
type Meta struct {
	VariableName string
	Description  string
	SetterActive bool
	Visible      bool
}

func newMeta(name, description string) Meta {
	return Meta{
		VariableName: name,
		Description:  description,
		SetterActive: true,
		Visible:      true,
	}
}

func (m *Meta) deactivateSetter() { m.SetterActive = false }

// activateSetter re-enables the setter unless the field is hidden; a hidden
// field must be made visible first.
func (m *Meta) activateSetter() {
	if m.Visible {
		m.SetterActive = true
	}
}

func (m *Meta) setVisible() { m.Visible = true }

func (m *Meta) setInvisible() {
	m.Visible = false
	m.SetterActive = false
}

// Child pairs an attribute name with its field. Composites declare their
// children as an explicit ordered list at construction time; all recursive
// operations drive off it.
type Child struct {
	Name  string
	Field Field
}

// ToolBinding ties a wire-safe tool name to the mutation it performs and the
// JSON-schema descriptor advertised to the LLM. The closure captures the tree
// node directly, so dispatch never re-parses the name.
type ToolBinding struct {
	Name       string
	Invoke     func(ctx context.Context, argsJSON string) error
	Definition llm.ToolDefinition
}

// sanitizeName makes a variable name wire-safe for tool identifiers.
func sanitizeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// extendPrefix hyphen-joins path segments, omitting an empty prefix.
func extendPrefix(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "-" + segment
}

// setterName builds the tool name for a leaf's set_value operation.
func setterName(prefix, variableName string) string {
	return extendPrefix(prefix, sanitizeName(variableName)) + "-set_value"
}
