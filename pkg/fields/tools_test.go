package fields

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUserData builds a small config with a scalar and a list of nested
// contact entries, the smallest tree that exercises every binding shape.
func newUserData() *Config {
	return NewConfig(
		Child{Name: "name", Field: NewString("name", "The user's name")},
		Child{Name: "contacts", Field: NewList("contacts", "The user's contact entries", func() Field {
			return NewNested("contact information", "One way to reach the user",
				Child{Name: "phone_number", Field: NewString("phone_number", "The contact's phone number")},
				Child{Name: "address", Field: NewString("address", "The contact's postal address")},
			)
		})},
	)
}

func bindingNames(bindings []ToolBinding) []string {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
	}
	return names
}

func TestBindingsFreshTree(t *testing.T) {
	cfg := newUserData()

	bindings := cfg.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, []string{"name-set_value", "contacts-create_item"}, bindingNames(bindings))
}

func TestBindingsGrowWithCreateItem(t *testing.T) {
	cfg := newUserData()
	contacts := cfg.Child("contacts").(*List)

	contacts.CreateItem()

	bindings := cfg.Bindings()
	require.Len(t, bindings, 4)
	assert.Equal(t, []string{
		"name-set_value",
		"0-contact_information-phone_number-set_value",
		"0-contact_information-address-set_value",
		"contacts-create_item",
	}, bindingNames(bindings))

	contacts.CreateItem()
	assert.Len(t, cfg.Bindings(), 6, "each new item adds its own setters")
}

func TestBindingsStableUnderRegeneration(t *testing.T) {
	cfg := newUserData()
	cfg.Child("contacts").(*List).CreateItem()

	first := bindingNames(cfg.Bindings())
	second := bindingNames(cfg.Bindings())

	assert.Equal(t, first, second)
}

func TestBindingsInvokeThroughCreateItem(t *testing.T) {
	cfg := newUserData()

	var create ToolBinding
	for _, b := range cfg.Bindings() {
		if b.Name == "contacts-create_item" {
			create = b
		}
	}
	require.NotNil(t, create.Invoke)
	assert.Contains(t, create.Definition.Description, "contact information")
	assert.Contains(t, create.Definition.Description, "Nested")

	require.NoError(t, create.Invoke(context.Background(), "{}"))
	require.NoError(t, create.Invoke(context.Background(), "{}"))

	assert.Equal(t, 2, cfg.Child("contacts").(*List).Len(),
		"create_item is not idempotent, each call adds one more")
}

func TestBindingsInvokeSetsValue(t *testing.T) {
	cfg := newUserData()
	cfg.Child("contacts").(*List).CreateItem()

	var phone ToolBinding
	for _, b := range cfg.Bindings() {
		if b.Name == "0-contact_information-phone_number-set_value" {
			phone = b
		}
	}
	require.NotNil(t, phone.Invoke)

	require.NoError(t, phone.Invoke(context.Background(), `{"val":"+358 40 1234567"}`))

	item := cfg.Child("contacts").(*List).Items()[0].(*Nested)
	assert.Equal(t, "+358 40 1234567", item.Child("phone_number").(*Scalar).Value())
}

func TestDeactivateLeafSetterRemovesOneBinding(t *testing.T) {
	cfg := newUserData()
	cfg.Child("contacts").(*List).CreateItem()
	require.Len(t, cfg.Bindings(), 4)

	cfg.Child("name").DeactivateSetter()

	names := bindingNames(cfg.Bindings())
	assert.Len(t, names, 3)
	assert.NotContains(t, names, "name-set_value")
}

func TestDeactivateCompositeKeepsCreateBinding(t *testing.T) {
	cfg := newUserData()
	contacts := cfg.Child("contacts").(*List)
	contacts.CreateItem()

	contacts.DeactivateSetter()

	names := bindingNames(cfg.Bindings())
	assert.Equal(t, []string{"name-set_value", "contacts-create_item"}, names,
		"item setters go away, create stays, it is toggled independently")

	contacts.DeactivateCreate()
	assert.Equal(t, []string{"name-set_value"}, bindingNames(cfg.Bindings()))

	contacts.ActivateCreate()
	contacts.ActivateSetter()
	assert.Len(t, cfg.Bindings(), 4)
}

func TestHiddenFieldCannotReactivateSetter(t *testing.T) {
	f := NewString("secret", "not for the model")

	f.SetInvisible()
	assert.False(t, f.Meta().SetterActive)

	f.ActivateSetter()
	assert.False(t, f.Meta().SetterActive, "a hidden field stays setter-inactive")
	assert.Empty(t, f.Bindings(""))

	f.SetVisible()
	f.ActivateSetter()
	assert.Len(t, f.Bindings(""), 1)
}

func TestNoRemovalToolExists(t *testing.T) {
	cfg := newUserData()
	list := cfg.Child("contacts").(*List)
	list.CreateItem()
	list.CreateItem()

	// list items can only be added, removal is intentionally unsupported
	for _, name := range bindingNames(cfg.Bindings()) {
		assert.False(t, strings.Contains(name, "remove"), "unexpected tool %s", name)
		assert.False(t, strings.Contains(name, "delete"), "unexpected tool %s", name)
	}
}

func TestNestedPrefixesAreWireSafe(t *testing.T) {
	cfg := NewConfig(
		Child{Name: "server", Field: NewNested("opc ua server", "server parameters",
			Child{Name: "port", Field: NewPort("port number", "server port")},
		)},
	)

	names := bindingNames(cfg.Bindings())
	require.Len(t, names, 1)
	assert.Equal(t, "opc_ua_server-port_number-set_value", names[0])
}

func TestScalarBindingDefinition(t *testing.T) {
	f := NewPort("portField", "server port")

	bindings := f.Bindings("")
	require.Len(t, bindings, 1)

	def := bindings[0].Definition
	assert.Equal(t, "portField-set_value", def.Name)
	assert.Equal(t, "Update the portField", def.Description)

	props := def.Parameters["properties"].(map[string]any)
	val := props["val"].(map[string]any)
	assert.Equal(t, "integer", val["type"])
	assert.Equal(t, []string{"val"}, def.Parameters["required"])
}

func TestEnumBindingDefinitionListsKeys(t *testing.T) {
	f := NewEnum("authenticationMode", "server auth mode",
		EnumOption{Key: "Anonymous", Value: 1},
		EnumOption{Key: "UserID&Password", Value: 2},
	)

	bindings := f.Bindings("conn")
	require.Len(t, bindings, 1)

	def := bindings[0].Definition
	assert.Equal(t, "conn-authenticationMode-set_value", def.Name)
	assert.Contains(t, def.Description, "Anonymous UserID&Password")

	props := def.Parameters["properties"].(map[string]any)
	val := props["val"].(map[string]any)
	assert.Equal(t, "string", val["type"], "selector parameters are always strings")
}
