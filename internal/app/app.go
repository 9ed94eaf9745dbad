package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/api"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/handlers"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/services/analysis"
	"github.com/ternarybob/rogo/internal/services/chat"
	"github.com/ternarybob/rogo/internal/services/documents"
	"github.com/ternarybob/rogo/internal/services/events"
	"github.com/ternarybob/rogo/internal/services/scheduler"
	"github.com/ternarybob/rogo/internal/services/sessions"
	"github.com/ternarybob/rogo/internal/storage/badger"
)

// App wires configuration, storage, services and handlers together
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	Storage interfaces.StorageManager

	// Services
	EventService     interfaces.EventService
	SessionService   interfaces.SessionService
	ChatService      interfaces.ChatService
	DocumentService  interfaces.DocumentService
	AnalysisService  interfaces.AnalysisService
	SchedulerService interfaces.SchedulerService

	// Handlers
	APIHandler      *handlers.APIHandler
	ChatHandler     *handlers.ChatHandler
	DocumentHandler *handlers.DocumentHandler
	AnalysisHandler *handlers.AnalysisHandler
	WSHandler       *handlers.WebSocketHandler
}

// New builds the application graph from configuration
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	storage, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = storage

	a.EventService = events.NewService(logger)

	client := api.NewClient(config.Backend.BaseURL,
		api.WithLogger(logger),
		api.WithEvents(a.EventService),
		api.WithTimeout(config.Backend.RequestTimeout()),
		api.WithRateLimit(config.Backend.RateLimit),
	)

	a.SessionService = sessions.NewService(storage.SessionStorage(), logger)
	a.ChatService = chat.NewOrchestrator(client, a.SessionService, a.EventService, logger)
	a.DocumentService = documents.NewTracker(client, storage.DocumentStorage(), a.EventService, logger, &config.Documents)
	a.AnalysisService = analysis.NewGateway(client, logger)
	a.SchedulerService = scheduler.NewService(a.SessionService, &config.Sessions, logger)

	a.APIHandler = handlers.NewAPIHandler()
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.SessionService, logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentService, config.Documents.MaxFileBytes(), logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.AnalysisService, logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, logger)

	return a, nil
}

// Start launches the background workers
func (a *App) Start() error {
	a.DocumentService.Start()

	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return nil
}

// Close stops the background workers and releases resources
func (a *App) Close() error {
	a.SchedulerService.Stop()
	a.DocumentService.Stop()
	a.WSHandler.Close()

	if err := a.EventService.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Event service close failed")
	}

	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	return nil
}
