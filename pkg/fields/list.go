package fields

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// List is a homogeneous, grow-only composite. Items are constructed fresh
// from an immutable blueprint factory; there is no live template instance
// that could be mutated by accident, and no removal operation.
type List struct {
	meta             Meta
	blueprint        func() Field
	items            []Field
	createItemActive bool

	// cached for the create-item tool description
	blueprintName string
	blueprintType string
}

// NewList creates an empty list whose items are built by the blueprint
// factory. The factory must return a fresh, independent field each call.
func NewList(name, description string, blueprint func() Field) *List {
	sample := blueprint()
	return &List{
		meta:             newMeta(name, description),
		blueprint:        blueprint,
		createItemActive: true,
		blueprintName:    sample.Meta().VariableName,
		blueprintType:    typeName(sample),
	}
}

// Meta implements Field.
func (l *List) Meta() *Meta { return &l.meta }

// Items returns the current items in order.
func (l *List) Items() []Field { return l.items }

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// CreateItem appends a fresh, empty item built from the blueprint. It always
// succeeds; there is no upper bound on list growth, and each call is a
// user-visible "add one more" (deliberately not idempotent).
func (l *List) CreateItem() {
	l.items = append(l.items, l.blueprint())
}

// DeactivateCreate removes the create-item tool from the generated surface.
// Independent of the items' setter state.
func (l *List) DeactivateCreate() { l.createItemActive = false }

// ActivateCreate re-enables the create-item tool.
func (l *List) ActivateCreate() { l.createItemActive = true }

// Describe implements Field.
func (l *List) Describe() map[string]any {
	if !l.meta.Visible {
		return map[string]any{}
	}
	items := make([]map[string]any, 0, len(l.items))
	for _, item := range l.items {
		if item.Meta().Visible {
			items = append(items, item.Describe())
		}
	}
	return map[string]any{
		"variable_name": l.meta.VariableName,
		"description":   l.meta.Description,
		"items":         items,
	}
}

// ToJSON implements Field.
func (l *List) ToJSON() any {
	values := make([]any, len(l.items))
	for i, item := range l.items {
		values[i] = item.ToJSON()
	}
	return values
}

// FillFromJSON implements Field. Each input element becomes a fresh blueprint
// clone filled recursively and appended; this is the only way persisted items
// are reconstructed (CreateItem appends empty items for the LLM to fill).
func (l *List) FillFromJSON(v any) error {
	arr, ok := v.([]any)
	if !ok {
		return apperrors.NewStructuralError(l.meta.VariableName, "array", v)
	}
	for _, el := range arr {
		item := l.blueprint()
		if err := item.FillFromJSON(el); err != nil {
			return err
		}
		l.items = append(l.items, item)
	}
	return nil
}

// Bindings implements Field: every current item's bindings with its 0-based
// position spliced into the prefix, plus the create-item tool.
func (l *List) Bindings(prefix string) []ToolBinding {
	var all []ToolBinding
	for idx, item := range l.items {
		all = append(all, item.Bindings(extendPrefix(prefix, strconv.Itoa(idx)))...)
	}
	all = append(all, l.createBinding(prefix)...)
	return all
}

func (l *List) createBinding(prefix string) []ToolBinding {
	if !l.createItemActive {
		return nil
	}

	name := extendPrefix(prefix, sanitizeName(l.meta.VariableName)) + "-create_item"
	def := llm.NewNoParamToolDefinition(
		name,
		fmt.Sprintf("Create a new entry for %s of type %s", l.blueprintName, l.blueprintType),
	)

	return []ToolBinding{{
		Name:       name,
		Definition: def,
		Invoke: func(context.Context, string) error {
			l.CreateItem()
			return nil
		},
	}}
}

// Clone implements Field.
func (l *List) Clone() Field {
	clone := *l
	clone.items = make([]Field, len(l.items))
	for i, item := range l.items {
		clone.items[i] = item.Clone()
	}
	return &clone
}

// DeactivateSetter implements Field; propagates into items, leaving
// createItemActive untouched.
func (l *List) DeactivateSetter() {
	l.meta.deactivateSetter()
	for _, item := range l.items {
		item.DeactivateSetter()
	}
}

// ActivateSetter implements Field.
func (l *List) ActivateSetter() {
	l.meta.activateSetter()
	for _, item := range l.items {
		item.ActivateSetter()
	}
}

// SetVisible implements Field.
func (l *List) SetVisible() {
	l.meta.setVisible()
	for _, item := range l.items {
		item.SetVisible()
	}
}

// SetInvisible implements Field.
func (l *List) SetInvisible() {
	l.meta.setInvisible()
	for _, item := range l.items {
		item.SetInvisible()
	}
}

// typeName reports a field's concrete type without package path or pointer.
func typeName(f Field) string {
	name := fmt.Sprintf("%T", f)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
