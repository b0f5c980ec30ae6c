package fields

import (
	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
)

// Nested is a composite whose attribute set is fixed at construction: an
// explicit ordered list of named children that every recursive operation
// drives from.
type Nested struct {
	meta     Meta
	children []Child
}

// NewNested creates a nested composite with the given ordered children.
func NewNested(name, description string, children ...Child) *Nested {
	return &Nested{meta: newMeta(name, description), children: children}
}

// Meta implements Field.
func (n *Nested) Meta() *Meta { return &n.meta }

// Children returns the ordered (name, field) pairs.
func (n *Nested) Children() []Child { return n.children }

// Child returns the named child field, nil if absent.
func (n *Nested) Child(name string) Field {
	for _, c := range n.children {
		if c.Name == name {
			return c.Field
		}
	}
	return nil
}

// Describe implements Field: the metadata envelope plus one entry per
// visible child, keyed by attribute name.
func (n *Nested) Describe() map[string]any {
	if !n.meta.Visible {
		return map[string]any{}
	}
	base := map[string]any{
		"variable_name": n.meta.VariableName,
		"description":   n.meta.Description,
	}
	for _, c := range n.children {
		if c.Field.Meta().Visible {
			base[c.Name] = c.Field.Describe()
		}
	}
	return base
}

// ToJSON implements Field.
func (n *Nested) ToJSON() any {
	base := map[string]any{}
	if !n.meta.Visible {
		return base
	}
	for _, c := range n.children {
		if c.Field.Meta().Visible {
			base[c.Name] = c.Field.ToJSON()
		}
	}
	return base
}

// FillFromJSON implements Field: recurses per matching key. Anything but an
// object is a structural mismatch.
func (n *Nested) FillFromJSON(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return apperrors.NewStructuralError(n.meta.VariableName, "object", v)
	}
	for _, c := range n.children {
		if childVal, present := obj[c.Name]; present {
			if err := c.Field.FillFromJSON(childVal); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bindings implements Field: the union of the children's bindings, each with
// the prefix extended by this node's own wire-safe name.
func (n *Nested) Bindings(prefix string) []ToolBinding {
	newPrefix := extendPrefix(prefix, sanitizeName(n.meta.VariableName))
	var all []ToolBinding
	for _, c := range n.children {
		all = append(all, c.Field.Bindings(newPrefix)...)
	}
	return all
}

// Clone implements Field.
func (n *Nested) Clone() Field {
	clone := *n
	clone.children = make([]Child, len(n.children))
	for i, c := range n.children {
		clone.children[i] = Child{Name: c.Name, Field: c.Field.Clone()}
	}
	return &clone
}

// DeactivateSetter implements Field.
func (n *Nested) DeactivateSetter() {
	n.meta.deactivateSetter()
	for _, c := range n.children {
		c.Field.DeactivateSetter()
	}
}

// ActivateSetter implements Field.
func (n *Nested) ActivateSetter() {
	n.meta.activateSetter()
	for _, c := range n.children {
		c.Field.ActivateSetter()
	}
}

// SetVisible implements Field.
func (n *Nested) SetVisible() {
	n.meta.setVisible()
	for _, c := range n.children {
		c.Field.SetVisible()
	}
}

// SetInvisible implements Field.
func (n *Nested) SetInvisible() {
	n.meta.setInvisible()
	for _, c := range n.children {
		c.Field.SetInvisible()
	}
}
