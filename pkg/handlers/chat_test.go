package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/chat"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/iem"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

type fakeDeviceLister struct {
	devices []iem.Device
	err     error
}

func (f *fakeDeviceLister) Devices(context.Context) ([]iem.Device, error) {
	return f.devices, f.err
}

func newTestHandler(t *testing.T, mock *llm.MockClient, devices DeviceLister) *ChatHandler {
	t.Helper()
	registry, err := apps.NewRegistry(nil)
	require.NoError(t, err)

	manager := chat.NewManager("test-secret", func(id string) (*chat.Session, error) {
		model := apps.NewAppModel()
		if _, err := registry.AddApp(model, "OPC_UA_CONNECTOR"); err != nil {
			return nil, err
		}
		ledger := chat.NewLedger("sys", model)
		extractor := chat.NewExtractor(model, mock, zap.NewNop())
		assistant := chat.NewAssistant(ledger, extractor, mock, 1, zap.NewNop())
		return &chat.Session{ID: id, Model: model, Assistant: assistant}, nil
	}, zap.NewNop())

	return NewChatHandler(manager, registry, devices, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	mock := llm.NewMockClient()
	mock.PromptWithToolsFunc = func(_ context.Context, _ []llm.Message, _ []llm.ToolDefinition) (*llm.ToolPromptResult, error) {
		return &llm.ToolPromptResult{ToolCalls: []llm.ToolCall{
			{Function: llm.ToolCallFunc{Name: "Port_number-set_value", Arguments: `{"val":70000}`}},
		}}, nil
	}
	mock.ChatFunc = func(_ context.Context, _ []llm.Message) (string, error) {
		return "That port is out of range.", nil
	}
	handler := newTestHandler(t, mock, &fakeDeviceLister{})

	rec := postJSON(t, handler.Chat, "/api/chat", chatRequest{Message: "port 70000"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "That port is out of range.", resp.Reply)
	require.Len(t, resp.Remediations, 1)
	assert.Contains(t, resp.Remediations[0], "Port_number")
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	handler := newTestHandler(t, llm.NewMockClient(), &fakeDeviceLister{})

	rec := postJSON(t, handler.Chat, "/api/chat", chatRequest{}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpointBackendFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.PromptWithToolsFunc = func(_ context.Context, _ []llm.Message, _ []llm.ToolDefinition) (*llm.ToolPromptResult, error) {
		return nil, errors.New("backend unavailable")
	}
	handler := newTestHandler(t, mock, &fakeDeviceLister{})

	rec := postJSON(t, handler.Chat, "/api/chat", chatRequest{Message: "hi"}, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAddAppEndpoint(t *testing.T) {
	handler := newTestHandler(t, llm.NewMockClient(), &fakeDeviceLister{})

	rec := postJSON(t, handler.AddApp, "/api/apps", addAppRequest{Type: "DATABUS"}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var described map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&described))
	assert.Equal(t, "DATABUS", described["app-name"])

	rec = postJSON(t, handler.AddApp, "/api/apps", addAppRequest{Type: "NOPE"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfigRoundTripOverHTTP(t *testing.T) {
	handler := newTestHandler(t, llm.NewMockClient(), &fakeDeviceLister{})

	// import validated values into the session's connector
	rec := postJSON(t, handler.ImportConfig, "/api/config/import", importConfigRequest{
		App: "OPC_UA_CONNECTOR",
		Config: map[string]any{
			"nameField": "X",
			"urlField":  "http://y",
			"portField": 8080,
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// export through the same session cookie
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	exportRec := httptest.NewRecorder()
	handler.ExportConfig(exportRec, req)

	require.Equal(t, http.StatusOK, exportRec.Code)
	var exported map[string]map[string]any
	require.NoError(t, json.NewDecoder(exportRec.Body).Decode(&exported))
	assert.Equal(t, map[string]any{
		"nameField": "X",
		"urlField":  "http://y",
		"portField": float64(8080),
	}, exported["OPC_UA_CONNECTOR"])
}

func TestImportConfigRejectsInvalidValues(t *testing.T) {
	handler := newTestHandler(t, llm.NewMockClient(), &fakeDeviceLister{})

	rec := postJSON(t, handler.ImportConfig, "/api/config/import", importConfigRequest{
		App:    "OPC_UA_CONNECTOR",
		Config: map[string]any{"portField": 70000},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, handler.ImportConfig, "/api/config/import", importConfigRequest{
		App:    "NOT_PRESENT",
		Config: map[string]any{},
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListDevicesEndpoint(t *testing.T) {
	handler := newTestHandler(t, llm.NewMockClient(), &fakeDeviceLister{
		devices: []iem.Device{{Name: "plant-floor-1", ID: "dev-1", Status: "online"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rec := httptest.NewRecorder()
	handler.ListDevices(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var devices []deviceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "plant-floor-1", devices[0].Name)
}

func TestListDevicesEndpointFailure(t *testing.T) {
	handler := newTestHandler(t, llm.NewMockClient(), &fakeDeviceLister{err: errors.New("portal down")})

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rec := httptest.NewRecorder()
	handler.ListDevices(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
