// Package apps holds the configurable edge applications: their config
// schemas, the registry that instantiates them, and the submission path to
// the vendor device manager.
package apps

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/fields"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
)

// Installer pushes a prepared app configuration onto an edge device and
// returns the vendor's job identifier.
type Installer interface {
	Install(ctx context.Context, deviceName, appName string, config map[string]any) (string, error)
}

// App is one configurable application instance: identity, the device it is
// destined for, and its config tree. Created when the user picks an app type,
// discarded with the session.
type App struct {
	Name        string
	ID          string
	Description string

	// InstalledDeviceName is unset until the model (or the user) picks a
	// target device; submission hard-requires it.
	InstalledDeviceName string

	Config *fields.Config

	installer Installer
}

// NewApp creates an app instance around a config schema.
func NewApp(name, id, description string, config *fields.Config, installer Installer) *App {
	return &App{
		Name:        name,
		ID:          id,
		Description: description,
		Config:      config,
		installer:   installer,
	}
}

// SetDeviceName records the target device for installation.
func (a *App) SetDeviceName(name string) {
	a.InstalledDeviceName = name
}

// SubmitToIEM converts the config tree to the vendor payload and installs it
// on the recorded device. The device name must be set first; there is no
// silent no-op.
func (a *App) SubmitToIEM(ctx context.Context) (string, error) {
	if a.InstalledDeviceName == "" {
		return "", fmt.Errorf("submit %s: %w", a.Name, apperrors.ErrDeviceNotSet)
	}
	if a.installer == nil {
		return "", fmt.Errorf("submit %s: no installer configured", a.Name)
	}
	return a.installer.Install(ctx, a.InstalledDeviceName, a.Name, a.Config.ToJSON())
}

// Describe returns the app's prompt-facing representation, config included.
func (a *App) Describe() map[string]any {
	return map[string]any{
		"app-name":              a.Name,
		"app-description":       a.Description,
		"installed_device_name": a.InstalledDeviceName,
		"fields":                a.Config.Describe(),
	}
}

// Bindings returns the app's own tools (submit, device-name setter) followed
// by the config tree's tools.
func (a *App) Bindings() []fields.ToolBinding {
	wireName := strings.ReplaceAll(a.Name, " ", "_")

	submitName := wireName + "_submit_to_iem"
	submit := fields.ToolBinding{
		Name: submitName,
		Definition: llm.NewNoParamToolDefinition(
			submitName,
			fmt.Sprintf("Install the app %s to the IEM.", a.Name),
		),
		Invoke: func(ctx context.Context, _ string) error {
			_, err := a.SubmitToIEM(ctx)
			return err
		},
	}

	deviceName := wireName + "-set_device_name"
	setDevice := fields.ToolBinding{
		Name: deviceName,
		Definition: llm.NewToolDefinition(
			deviceName,
			fmt.Sprintf("Set the installed_device_name for %s.", a.Name),
			map[string]llm.ParameterProperty{
				"val": {
					Type:        "string",
					Description: "the new installed_device_name",
				},
			},
			[]string{"val"},
		),
		Invoke: func(_ context.Context, argsJSON string) error {
			val, err := fields.DecodeValArg(argsJSON)
			if err != nil {
				return err
			}
			name, ok := val.(string)
			if !ok {
				return apperrors.NewValidationError("installed_device_name", val, "device name must be a string")
			}
			a.SetDeviceName(name)
			return nil
		},
	}

	return append([]fields.ToolBinding{submit, setDevice}, a.Config.Bindings()...)
}

// Clone deep-copies the app including its config values. The installer is
// shared; it is stateless from the app's point of view.
func (a *App) Clone() *App {
	clone := *a
	clone.Config = a.Config.Clone()
	return &clone
}

// AppModel aggregates every app the session is configuring. Owned by exactly
// one session; no locking needed.
type AppModel struct {
	Apps []*App
}

// NewAppModel creates an empty aggregate.
func NewAppModel() *AppModel {
	return &AppModel{}
}

// Add appends an app to the model.
func (m *AppModel) Add(app *App) {
	m.Apps = append(m.Apps, app)
}

// App returns the named app, nil if absent.
func (m *AppModel) App(name string) *App {
	for _, app := range m.Apps {
		if app.Name == name {
			return app
		}
	}
	return nil
}

// Describe returns every app's prompt-facing representation in order.
func (m *AppModel) Describe() []map[string]any {
	out := make([]map[string]any, len(m.Apps))
	for i, app := range m.Apps {
		out[i] = app.Describe()
	}
	return out
}

// Bindings returns the union of every app's tools, in app order.
func (m *AppModel) Bindings() []fields.ToolBinding {
	var all []fields.ToolBinding
	for _, app := range m.Apps {
		all = append(all, app.Bindings()...)
	}
	return all
}

// Clone deep-copies the model for history snapshots.
func (m *AppModel) Clone() *AppModel {
	clone := &AppModel{Apps: make([]*App, len(m.Apps))}
	for i, app := range m.Apps {
		clone.Apps[i] = app.Clone()
	}
	return clone
}
