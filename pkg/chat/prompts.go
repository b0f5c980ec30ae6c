package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/iem"
)

const systemPromptTemplate = `You are an assistant helping an operator configure industrial edge applications.

You guide the user through filling in the configuration of the apps listed below, one value at a time. Ask for missing values, confirm what the user provides, and never invent values the user did not state. When a provided value was rejected, relay the reason and ask for a corrected one. When the configuration is complete and the user confirms, the app can be installed on one of the listed edge devices.

The configurable apps are:
%s

The available edge devices are:
%s`

// BuildSystemPrompt renders the fixed system prompt from the installable app
// catalog and the currently registered edge devices.
func BuildSystemPrompt(catalog []apps.CatalogEntry, devices []iem.Device) string {
	overview := make([]map[string]string, len(catalog))
	for i, entry := range catalog {
		overview[i] = map[string]string{
			"app-name":        entry.Name,
			"app-description": entry.Description,
		}
	}
	appsJSON, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		appsJSON = []byte(fmt.Sprintf("%v", overview))
	}

	lines := make([]string, len(devices))
	for i, device := range devices {
		lines[i] = fmt.Sprintf("%s (%s)", device.Name, device.Status)
	}
	deviceList := strings.Join(lines, "\n")
	if deviceList == "" {
		deviceList = "(no devices registered)"
	}

	return fmt.Sprintf(systemPromptTemplate, string(appsJSON), deviceList)
}
