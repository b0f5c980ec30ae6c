package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/fields"
)

func TestRegistryCatalog(t *testing.T) {
	reg, err := NewRegistry(&fakeInstaller{})
	require.NoError(t, err)

	catalog := reg.Catalog()
	require.NotEmpty(t, catalog)
	assert.Equal(t, "OPC_UA_CONNECTOR", catalog[0].Name)
	assert.Equal(t, "456e041339e744caa9514a1c86536067", catalog[0].ID)
}

func TestRegistryNewApp(t *testing.T) {
	reg, err := NewRegistry(&fakeInstaller{})
	require.NoError(t, err)

	app, err := reg.NewApp("OPC_UA_CONNECTOR")
	require.NoError(t, err)
	assert.NotNil(t, app.Config.Child("nameField"))
	assert.NotNil(t, app.Config.Child("urlField"))
	assert.NotNil(t, app.Config.Child("portField"))

	_, err = reg.NewApp("NOT_AN_APP")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegistryAppsAreIndependent(t *testing.T) {
	reg, err := NewRegistry(&fakeInstaller{})
	require.NoError(t, err)

	first, err := reg.NewApp("OPC_UA_CONNECTOR")
	require.NoError(t, err)
	second, err := reg.NewApp("OPC_UA_CONNECTOR")
	require.NoError(t, err)

	require.NoError(t, first.Config.Child("nameField").(*fields.Scalar).SetValue("one"))
	assert.Nil(t, second.Config.Child("nameField").(*fields.Scalar).Value())
}

func TestRegistryAddApp(t *testing.T) {
	reg, err := NewRegistry(&fakeInstaller{})
	require.NoError(t, err)
	model := NewAppModel()

	app, err := reg.AddApp(model, "DATABUS")
	require.NoError(t, err)
	assert.Same(t, app, model.App("DATABUS"))

	_, err = reg.AddApp(model, "NOT_AN_APP")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Len(t, model.Apps, 1)
}

func TestDocumentationSchemasStartEmpty(t *testing.T) {
	ua := NewDocumentationUAConnectorConfig()
	assert.Equal(t, 0, ua.Child("datapoints").(*fields.List).Len())
	assert.Equal(t, "edge", ua.Child("username").(*fields.Scalar).Value())

	databus := NewDocumentationDatabusConfig()
	assert.Equal(t, 0, databus.Child("user-config").(*fields.List).Len())
}

func TestDocumentationUAConnectorToolSurface(t *testing.T) {
	cfg := NewDocumentationUAConnectorConfig()

	names := map[string]bool{}
	for _, b := range cfg.Bindings() {
		names[b.Name] = true
	}
	assert.True(t, names["datapoints-create_item"])
	assert.True(t, names["dbservicename-set_value"])

	cfg.Child("datapoints").(*fields.List).CreateItem()

	names = map[string]bool{}
	for _, b := range cfg.Bindings() {
		names[b.Name] = true
	}
	assert.True(t, names["0-OPCUAServer_Datapoint-name-set_value"])
	assert.True(t, names["0-OPCUAServer_Datapoint-tags-create_item"])
	assert.True(t, names["0-OPCUAServer_Datapoint-authenticationMode-set_value"])
}
