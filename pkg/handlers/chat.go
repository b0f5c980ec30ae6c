package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/chat"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/iem"
)

// DeviceLister is the read side of the device directory.
type DeviceLister interface {
	Devices(ctx context.Context) ([]iem.Device, error)
}

// ChatHandler exposes the conversation, config and device endpoints.
type ChatHandler struct {
	sessions *chat.Manager
	registry *apps.Registry
	devices  DeviceLister
	logger   *zap.Logger
}

// NewChatHandler creates the handler over the session manager.
func NewChatHandler(sessions *chat.Manager, registry *apps.Registry, devices DeviceLister, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		registry: registry,
		devices:  devices,
		logger:   logger.Named("chat-handler"),
	}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.Chat)
	mux.HandleFunc("POST /api/apps", h.AddApp)
	mux.HandleFunc("GET /api/config", h.ExportConfig)
	mux.HandleFunc("POST /api/config/import", h.ImportConfig)
	mux.HandleFunc("GET /api/devices", h.ListDevices)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply        string   `json:"reply"`
	Remediations []string `json:"remediations,omitempty"`
}

// Chat handles POST /api/chat: one full conversation turn.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	session, err := h.sessions.Session(w, r)
	if err != nil {
		h.logger.Error("session setup failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "could not establish session")
		return
	}

	result, err := session.Assistant.HandleMessage(r.Context(), req.Message)
	if err != nil {
		h.logger.Error("turn failed", zap.String("session_id", session.ID), zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "turn_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, chatResponse{
		Reply:        result.Reply,
		Remediations: result.Remediations,
	}); err != nil {
		h.logger.Error("Failed to encode chat response", zap.Error(err))
	}
}

type addAppRequest struct {
	Type string `json:"type"`
}

// AddApp handles POST /api/apps: instantiate an app type into the session.
func (h *ChatHandler) AddApp(w http.ResponseWriter, r *http.Request) {
	var req addAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "type is required")
		return
	}

	session, err := h.sessions.Session(w, r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "could not establish session")
		return
	}

	app, err := h.registry.AddApp(session.Model, req.Type)
	if errors.Is(err, apperrors.ErrNotFound) {
		_ = ErrorResponse(w, http.StatusNotFound, "unknown_app_type", err.Error())
		return
	}
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "add_app_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusCreated, app.Describe()); err != nil {
		h.logger.Error("Failed to encode app response", zap.Error(err))
	}
}

// ExportConfig handles GET /api/config: the serialized config of every app
// in the session, keyed by app name.
func (h *ChatHandler) ExportConfig(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Session(w, r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "could not establish session")
		return
	}

	out := map[string]any{}
	for _, app := range session.Model.Apps {
		out[app.Name] = app.Config.ToJSON()
	}

	if err := WriteJSON(w, http.StatusOK, out); err != nil {
		h.logger.Error("Failed to encode config export", zap.Error(err))
	}
}

type importConfigRequest struct {
	App    string         `json:"app"`
	Config map[string]any `json:"config"`
}

// ImportConfig handles POST /api/config/import: fill a named app's config
// tree from previously exported JSON. Values are validated as if they were
// set live.
func (h *ChatHandler) ImportConfig(w http.ResponseWriter, r *http.Request) {
	var req importConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.App == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "app and config are required")
		return
	}

	session, err := h.sessions.Session(w, r)
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "session_error", "could not establish session")
		return
	}

	app := session.Model.App(req.App)
	if app == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "unknown_app", "no app named "+req.App+" in this session")
		return
	}

	if err := app.Config.FillFromJSON(req.Config); err != nil {
		var verr *apperrors.ValidationError
		var serr *apperrors.StructuralError
		if errors.As(err, &verr) || errors.As(err, &serr) {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_config", err.Error())
			return
		}
		_ = ErrorResponse(w, http.StatusInternalServerError, "import_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, app.Config.ToJSON()); err != nil {
		h.logger.Error("Failed to encode config import response", zap.Error(err))
	}
}

type deviceResponse struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListDevices handles GET /api/devices.
func (h *ChatHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.devices.Devices(r.Context())
	if err != nil {
		h.logger.Error("device list failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "device_list_failed", err.Error())
		return
	}

	out := make([]deviceResponse, len(devices))
	for i, device := range devices {
		out[i] = deviceResponse{Name: device.Name, ID: device.ID, Status: device.Status}
	}

	if err := WriteJSON(w, http.StatusOK, out); err != nil {
		h.logger.Error("Failed to encode device list", zap.Error(err))
	}
}
