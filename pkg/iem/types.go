// Package iem talks to the vendor's Industrial Edge Management REST API:
// device directory, app installation and the config payload conversion the
// installer expects.
package iem

// Device is one edge device registered in the management portal.
type Device struct {
	Name   string
	ID     string
	Status string
}

// DetailedDevice adds the device's local network address, resolved through
// the portal service.
type DetailedDevice struct {
	Device
	URL string
}

// InstallConfig is one prepared app configuration attached to an install
// batch. The field names are the vendor's wire format.
type InstallConfig struct {
	ConfigID           string         `json:"configId"`
	TemplateID         string         `json:"templateId"`
	EditedTemplateText map[string]any `json:"editedTemplateText"`
}
