package apps

import "github.com/edgepilot-ai/edgepilot-engine/pkg/fields"

// NewUAConnectorConfig builds the minimal OPC UA Connector schema: one
// server's name, url and port. This is the variant the vendor converter
// understands end to end.
func NewUAConnectorConfig() *fields.Config {
	return fields.NewConfig(
		fields.Child{Name: "nameField", Field: fields.NewString(
			"Name",
			"The name of the corresponding OPC UA Server.",
		)},
		fields.Child{Name: "urlField", Field: fields.NewURL(
			"OPC-UA_URL",
			"The URL of the corresponding OPC UA Server.",
		)},
		fields.Child{Name: "portField", Field: fields.NewPort(
			"Port_number",
			"The port number from which the data of OPC UA Server will be sent.",
		)},
	)
}

// newOPCUATagConfig describes a single data node of an OPC UA server.
func newOPCUATagConfig() fields.Field {
	return fields.NewNested("tag", "Tag representing a data node of OPC UA Server",
		fields.Child{Name: "name", Field: fields.NewString(
			"name",
			"Name of OPC UA Server data node",
		)},
		fields.Child{Name: "address", Field: fields.NewString(
			"address",
			"Address of data within the OPC UA server.",
		)},
		fields.Child{Name: "dataType", Field: fields.NewString(
			"dataType",
			"Type of data within the OPC UA server node. Available data types: Int, Bool, Byte, Char, DInt, String, "+
				"Real, Word, LInt, SInt, USInt, UInt, UDInt, ULInt, LReal, DWord, LWord. "+
				`For array data add "Array" suffix to the type, e.g. "Int Array".`,
		)},
		fields.Child{Name: "acquisitionCycle", Field: fields.NewEnum(
			"acquisitionCycle",
			"Time between consequent value checks in milliseconds or second. Available times: 10 milliseconds, "+
				"50 milliseconds, 100 milliseconds, 250 milliseconds, 500 milliseconds, 1 second, 2 second, 5 second, 10 second",
			fields.EnumOption{Key: "10 milliseconds", Value: 10},
			fields.EnumOption{Key: "50 milliseconds", Value: 50},
			fields.EnumOption{Key: "100 milliseconds", Value: 100},
			fields.EnumOption{Key: "250 milliseconds", Value: 250},
			fields.EnumOption{Key: "500 milliseconds", Value: 500},
			fields.EnumOption{Key: "1 second", Value: 1000},
			fields.EnumOption{Key: "2 second", Value: 2000},
			fields.EnumOption{Key: "5 second", Value: 5000},
			fields.EnumOption{Key: "10 second", Value: 10000},
		)},
		fields.Child{Name: "acquisitionMode", Field: fields.NewEnum(
			"acquisitionMode",
			"Aquisition mode, describing when UAConnector will pull value from data node. Possible options: CyclicOnChange",
			fields.EnumOption{Key: "CyclicOnChange", Value: "CyclicOnChange"},
		).WithKey("CyclicOnChange")},
		fields.Child{Name: "isArrayTypeTag", Field: fields.NewBool(
			"isArrayTypeTag",
			"Boolean tag used to determine whether the data has an array type",
		)},
		fields.Child{Name: "accessMode", Field: fields.NewEnum(
			"accessMode",
			"Access mode of UA Connector to data node. Either Read, or Read & Write",
			fields.EnumOption{Key: "Read", Value: "r"},
			fields.EnumOption{Key: "Read & Write", Value: "rw"},
		)},
		fields.Child{Name: "comments", Field: fields.NewString(
			"comments",
			"Comment describing the data transmitted from data node.",
		)},
	)
}

// newOPCUADatapointConfig describes one OPC UA server acting as a data
// source, including its tags.
func newOPCUADatapointConfig() fields.Field {
	return fields.NewNested("OPCUAServer_Datapoint", "OPC UA Server that sends data through this UA Connector",
		fields.Child{Name: "name", Field: fields.NewString(
			"name",
			"The name of the corresponding OPC UA Server.",
		)},
		fields.Child{Name: "tags", Field: fields.NewList(
			"tags",
			"List of data nodes of the OPC UA server.",
			newOPCUATagConfig,
		)},
		fields.Child{Name: "OPCUAUrl", Field: fields.NewURL(
			"OPCUAUrl",
			"The URL of the corresponding OPC UA Server.",
		)},
		fields.Child{Name: "portNumber", Field: fields.NewPort(
			"portNumber",
			"The port number from which the data of OPC UA Server will be sent.",
		)},
		fields.Child{Name: "authenticationMode", Field: fields.NewEnum(
			"authenticationMode",
			"Mode of authentication to OPC UA Server. Can be Anonymous or User ID & Password",
			fields.EnumOption{Key: "Anonymous", Value: 1},
			fields.EnumOption{Key: "User ID & Password", Value: 2},
		)},
	)
}

// NewDocumentationUAConnectorConfig builds the full documentation-grade UA
// Connector schema: multiple server datapoints with per-tag settings, plus
// the Databus publishing credentials.
func NewDocumentationUAConnectorConfig() *fields.Config {
	return fields.NewConfig(
		fields.Child{Name: "datapoints", Field: fields.NewList(
			"datapoints",
			"List of OPC UA server configs that act as data sources.",
			newOPCUADatapointConfig,
		)},
		fields.Child{Name: "dbservicename", Field: fields.NewString(
			"dbservicename",
			"Name of the Databus service to which the data from UA Connector will be published",
		)},
		fields.Child{Name: "username", Field: fields.NewString(
			"username",
			"Username used to connect to Databus",
		).WithValue("edge")},
		fields.Child{Name: "password", Field: fields.NewString(
			"password",
			"Password used to connect to Databus",
		).WithValue("edge")},
	)
}
