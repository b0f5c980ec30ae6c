package iem

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service bundles device lookup, config conversion and batch submission into
// the one-call install path the chat layer binds to a tool.
type Service struct {
	client    *Client
	converter *Converter
	logger    *zap.Logger
}

// NewService creates the install service on top of a portal client.
func NewService(client *Client, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		converter: NewConverter(),
		logger:    logger.Named("iem-install"),
	}
}

// Install resolves the device, converts the app's serialized config to the
// portal payload and submits the install batch. Returns the portal job id.
func (s *Service) Install(ctx context.Context, deviceName, appName string, config map[string]any) (string, error) {
	device, err := s.client.DeviceDetails(ctx, deviceName)
	if err != nil {
		return "", err
	}

	var prepared InstallConfig
	switch appName {
	case "OPC_UA_CONNECTOR":
		prepared, err = s.converter.ConvertUAConnector(config, device)
	default:
		return "", fmt.Errorf("no install conversion for app %q", appName)
	}
	if err != nil {
		return "", err
	}

	s.logger.Info("installing app",
		zap.String("app", appName),
		zap.String("device", deviceName),
		zap.String("device_id", device.ID))

	return s.client.InstallApp(ctx, device.ID, OPCUAConnectorAppID, []InstallConfig{prepared})
}
