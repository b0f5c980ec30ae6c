package apps

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apperrors"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/fields"
)

//go:embed apps.yaml
var catalogYAML []byte

// CatalogEntry is one installable app type from the embedded catalog.
type CatalogEntry struct {
	Name        string `yaml:"name"`
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Schema      string `yaml:"schema"`
}

type catalogFile struct {
	Apps []CatalogEntry `yaml:"apps"`
}

// schemaBuilders maps a catalog schema key to its config constructor.
var schemaBuilders = map[string]func() *fields.Config{
	"ua-connector":               NewUAConnectorConfig,
	"ua-connector-documentation": NewDocumentationUAConnectorConfig,
	"databus-documentation":      NewDocumentationDatabusConfig,
}

// Registry maps app type names to their config schemas and instantiates new
// App instances for a session.
type Registry struct {
	entries   []CatalogEntry
	installer Installer
}

// NewRegistry loads the embedded catalog. Every entry must reference a known
// schema key; an unknown key is a packaging error, not a runtime condition.
func NewRegistry(installer Installer) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse app catalog: %w", err)
	}
	for _, entry := range file.Apps {
		if _, ok := schemaBuilders[entry.Schema]; !ok {
			return nil, fmt.Errorf("app catalog: %s references unknown schema %q", entry.Name, entry.Schema)
		}
	}
	return &Registry{entries: file.Apps, installer: installer}, nil
}

// Catalog returns the installable app types in catalog order.
func (r *Registry) Catalog() []CatalogEntry {
	return r.entries
}

// NewApp instantiates a fresh app of the given type with its default config
// schema. An unknown type name wraps apperrors.ErrNotFound.
func (r *Registry) NewApp(typeName string) (*App, error) {
	for _, entry := range r.entries {
		if entry.Name == typeName {
			config := schemaBuilders[entry.Schema]()
			return NewApp(entry.Name, entry.ID, entry.Description, config, r.installer), nil
		}
	}
	return nil, fmt.Errorf("app type %q: %w", typeName, apperrors.ErrNotFound)
}

// AddApp instantiates an app of the given type and appends it to the model.
func (r *Registry) AddApp(model *AppModel, typeName string) (*App, error) {
	app, err := r.NewApp(typeName)
	if err != nil {
		return nil, err
	}
	model.Add(app)
	return app, nil
}
