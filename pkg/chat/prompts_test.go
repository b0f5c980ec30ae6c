package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/iem"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(
		[]apps.CatalogEntry{
			{Name: "OPC_UA_CONNECTOR", Description: "Collects data from an OPC UA server."},
		},
		[]iem.Device{
			{Name: "plant-floor-1", Status: "online"},
			{Name: "plant-floor-2", Status: "offline"},
		},
	)

	assert.Contains(t, prompt, "OPC_UA_CONNECTOR")
	assert.Contains(t, prompt, "Collects data from an OPC UA server.")
	assert.Contains(t, prompt, "plant-floor-1 (online)")
	assert.Contains(t, prompt, "plant-floor-2 (offline)")
}

func TestBuildSystemPromptNoDevices(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)
	assert.Contains(t, prompt, "(no devices registered)")
}
