package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/chat"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/config"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/handlers"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/iem"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/llm"
	"github.com/edgepilot-ai/edgepilot-engine/pkg/middleware"
)

// Version is set at build time via ldflags
var Version = "dev"

// noDevices stands in for the portal when no IEM connection is configured,
// e.g. during local development.
type noDevices struct{}

func (noDevices) Devices(context.Context) ([]iem.Device, error) {
	return nil, nil
}

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("iem_configured", cfg.IEM.IsConfigured()))

	client, err := llm.NewFromProvider(cfg.LLM.Provider, &llm.Config{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Temperature: float64(cfg.LLM.Temperature),
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout(),
	}, logger)
	if err != nil {
		logger.Fatal("failed to create LLM client", zap.Error(err))
	}

	var installer apps.Installer
	var deviceLister handlers.DeviceLister = noDevices{}
	if cfg.IEM.IsConfigured() {
		iemClient, err := iem.NewClient(iem.Config{
			BaseURL:      cfg.IEM.BaseURL,
			PortalURL:    cfg.IEM.PortalURL,
			TokenURL:     cfg.IEM.TokenURL,
			ClientID:     cfg.IEM.ClientID,
			ClientSecret: cfg.IEM.ClientSecret,
			Timeout:      cfg.IEM.Timeout(),
		}, logger)
		if err != nil {
			logger.Fatal("failed to create IEM client", zap.Error(err))
		}
		installer = iem.NewService(iemClient, logger)
		deviceLister = iemClient
	} else {
		logger.Warn("IEM connection not configured, device listing and installation are disabled")
	}

	registry, err := apps.NewRegistry(installer)
	if err != nil {
		logger.Fatal("failed to load app catalog", zap.Error(err))
	}

	newSession := func(id string) (*chat.Session, error) {
		model := apps.NewAppModel()
		if _, err := registry.AddApp(model, "OPC_UA_CONNECTOR"); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		devices, err := deviceLister.Devices(ctx)
		if err != nil {
			// the prompt degrades gracefully, devices can still be listed later
			logger.Warn("device list unavailable for system prompt", zap.Error(err))
		}

		systemPrompt := chat.BuildSystemPrompt(registry.Catalog(), devices)
		ledger := chat.NewLedger(systemPrompt, model)
		extractor := chat.NewExtractor(model, client, logger)
		assistant := chat.NewAssistant(ledger, extractor, client, cfg.Chat.HistoryPairs, logger)

		return &chat.Session{ID: id, Model: model, Assistant: assistant}, nil
	}

	sessions := chat.NewManager(cfg.SessionSecret, newSession, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(sessions, registry, deviceLister, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting edgepilot-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
