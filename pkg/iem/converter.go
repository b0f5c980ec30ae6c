package iem

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Vendor identifiers for the OPC UA Connector app in the management portal.
const (
	OPCUAConnectorAppID      = "456e041339e744caa9514a1c86536067"
	opcuaConnectorConfigID   = "3d24e7d090bf44d8be2adaa770abd162"
	opcuaConnectorTemplateID = "82c6b39463d5410196b814af90ee30c4"
)

//go:embed templates/opc_ua_connector.json
var opcuaConnectorTemplate []byte

// Converter turns a serialized app config into the portal's install payload
// by splicing the values into the app's config template.
type Converter struct{}

// NewConverter creates a converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ConvertUAConnector prepares the OPC UA Connector install payload. The
// config is the serialized tree with nameField, urlField and portField; the
// device supplies the target identity the portal embeds in the template.
func (c *Converter) ConvertUAConnector(config map[string]any, device DetailedDevice) (InstallConfig, error) {
	var tmpl map[string]any
	if err := json.Unmarshal(opcuaConnectorTemplate, &tmpl); err != nil {
		return InstallConfig{}, fmt.Errorf("parse connector template: %w", err)
	}

	for _, key := range []string{"nameField", "urlField", "portField"} {
		if _, ok := config[key]; !ok || config[key] == nil {
			return InstallConfig{}, fmt.Errorf("config is missing %s", key)
		}
	}

	for _, section := range []string{"UIConfig", "ConfigData"} {
		dp, err := firstOPCUADatapoint(tmpl, section)
		if err != nil {
			return InstallConfig{}, err
		}
		dp["name"] = config["nameField"]
		dp["OPCUAUrl"] = config["urlField"]
		dp["portNumber"] = config["portField"]
	}

	system, ok := tmpl["SystemData"].(map[string]any)
	if !ok {
		return InstallConfig{}, fmt.Errorf("connector template: missing SystemData")
	}
	details, ok := system["deviceDetails"].(map[string]any)
	if !ok {
		return InstallConfig{}, fmt.Errorf("connector template: missing deviceDetails")
	}
	details["deviceName"] = device.Name
	details["deviceId"] = device.ID
	details["configId"] = opcuaConnectorConfigID
	details["appId"] = OPCUAConnectorAppID

	return InstallConfig{
		ConfigID:           opcuaConnectorConfigID,
		TemplateID:         opcuaConnectorTemplateID,
		EditedTemplateText: tmpl,
	}, nil
}

func firstOPCUADatapoint(tmpl map[string]any, section string) (map[string]any, error) {
	sec, ok := tmpl[section].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("connector template: missing %s", section)
	}
	dps, ok := sec["datapoints"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("connector template: %s has no datapoints", section)
	}
	opcua, ok := dps["OPCUA"].([]any)
	if !ok || len(opcua) == 0 {
		return nil, fmt.Errorf("connector template: %s has no OPCUA datapoint", section)
	}
	dp, ok := opcua[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("connector template: %s OPCUA datapoint is malformed", section)
	}
	return dp, nil
}
