package apps

import "github.com/edgepilot-ai/edgepilot-engine/pkg/fields"

// newDatabusTopicConfig describes a single MQTT topic and the user's rights
// on it.
func newDatabusTopicConfig() fields.Field {
	return fields.NewNested("topic", "Description of a single topic that user can use for communication",
		fields.Child{Name: "topic-name", Field: fields.NewString(
			"topic-name",
			"Name of the MQQT topic a user can utilize for communication",
		)},
		fields.Child{Name: "access-rights", Field: fields.NewEnum(
			"access-rights",
			"Access right of the user to the topic. Can be No Permission, Subscribe Only, Publish and Subscribe",
			fields.EnumOption{Key: "No Permission", Value: "none"},
			fields.EnumOption{Key: "Subscribe Only", Value: "subscribe"},
			fields.EnumOption{Key: "Publish and Subscribe", Value: "both"},
		)},
	)
}

// newDatabusUserConfig describes one Databus user and the topics granted to
// them.
func newDatabusUserConfig() fields.Field {
	return fields.NewNested("user", "Databus user config.",
		fields.Child{Name: "username", Field: fields.NewString(
			"username",
			"Name of the Databus user.",
		).WithValue("edge")},
		fields.Child{Name: "password", Field: fields.NewString(
			"password",
			"Password of the Databus user.",
		)},
		fields.Child{Name: "topics", Field: fields.NewList(
			"topics",
			"List of MQTT topics that user can utilize for communication",
			newDatabusTopicConfig,
		)},
	)
}

// NewDocumentationDatabusConfig builds the documentation-grade Databus
// schema: users with topic grants, persistence settings and live view.
func NewDocumentationDatabusConfig() *fields.Config {
	return fields.NewConfig(
		fields.Child{Name: "user-config", Field: fields.NewList(
			"user-config",
			"List of users that are allowed to publish and subscribe to topics.",
			newDatabusUserConfig,
		)},
		fields.Child{Name: "is-enabled", Field: fields.NewBool(
			"is-enabled",
			"Bool flag showing whether data persistency is enabled for databus (passing messages are backuped).",
		)},
		fields.Child{Name: "autosave-interval", Field: fields.NewEnum(
			"autosave-interval",
			"Time intervals between data backups in case persistency is enabled. Can be 5 mins, 1 hour, 1 day.",
			fields.EnumOption{Key: "5 mins", Value: "300"},
			fields.EnumOption{Key: "1 hour", Value: "3600"},
			fields.EnumOption{Key: "1 day", Value: "86400"},
		)},
		fields.Child{Name: "live_view_config", Field: fields.NewNested(
			"live_view_config",
			"Config for live monitoring of communication through MQTT topics.",
			fields.Child{Name: "topics", Field: fields.NewList(
				"topics",
				"List of topic names that are monitored live.",
				func() fields.Field {
					return fields.NewString("topic-name", "Name of the topic that is monitored live")
				},
			)},
		)},
	)
}
