package fields

import (
	"encoding/json"
	"fmt"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
)

// Config is the root of an app's configuration tree. It follows the same
// recursive contract as Nested but carries no variable name or description
// of its own: it canonically is the root, and its children's tool names
// start with an empty prefix.
type Config struct {
	children []Child
}

// NewConfig creates a config root with the given ordered children.
func NewConfig(children ...Child) *Config {
	return &Config{children: children}
}

// Children returns the ordered (name, field) pairs.
func (c *Config) Children() []Child { return c.children }

// Child returns the named child field, nil if absent.
func (c *Config) Child(name string) Field {
	for _, ch := range c.children {
		if ch.Name == name {
			return ch.Field
		}
	}
	return nil
}

// Describe returns one entry per visible child, keyed by attribute name.
func (c *Config) Describe() map[string]any {
	base := map[string]any{}
	for _, ch := range c.children {
		if ch.Field.Meta().Visible {
			base[ch.Name] = ch.Field.Describe()
		}
	}
	return base
}

// PromptString renders the description for inclusion in an LLM prompt.
func (c *Config) PromptString() string {
	b, err := json.Marshal(c.Describe())
	if err != nil {
		return fmt.Sprintf("%v", c.Describe())
	}
	return string(b)
}

// ToJSON returns the flat value object: child name to raw value shape.
// Hidden children are dropped, so a tree with hidden fields does not
// round-trip; that is a documented property, not a bug.
func (c *Config) ToJSON() map[string]any {
	base := map[string]any{}
	for _, ch := range c.children {
		if ch.Field.Meta().Visible {
			base[ch.Name] = ch.Field.ToJSON()
		}
	}
	return base
}

// FillFromJSON is the inverse of ToJSON, recursing per matching key.
func (c *Config) FillFromJSON(v map[string]any) error {
	if v == nil {
		return apperrors.NewStructuralError("config", "object", v)
	}
	for _, ch := range c.children {
		if childVal, present := v[ch.Name]; present {
			if err := ch.Field.FillFromJSON(childVal); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bindings returns the tool bindings of all children, rooted at an empty
// prefix. Regenerate after every mutation that can change tree shape.
func (c *Config) Bindings() []ToolBinding {
	var all []ToolBinding
	for _, ch := range c.children {
		all = append(all, ch.Field.Bindings("")...)
	}
	return all
}

// Clone returns a deep copy of the config tree and its current values.
func (c *Config) Clone() *Config {
	children := make([]Child, len(c.children))
	for i, ch := range c.children {
		children[i] = Child{Name: ch.Name, Field: ch.Field.Clone()}
	}
	return &Config{children: children}
}

// DeactivateSetter disables every descendant's setter.
func (c *Config) DeactivateSetter() {
	for _, ch := range c.children {
		ch.Field.DeactivateSetter()
	}
}

// ActivateSetter re-enables descendants' setters where visible.
func (c *Config) ActivateSetter() {
	for _, ch := range c.children {
		ch.Field.ActivateSetter()
	}
}
