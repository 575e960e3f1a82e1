package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reviewdesk/internal/adapter/api"
	"reviewdesk/internal/adapter/api/handler"
	custommiddleware "reviewdesk/internal/adapter/api/middleware"
	"reviewdesk/internal/adapter/api/router"
	"reviewdesk/internal/adapter/backend"
	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/infrastructure/realtime"
	"reviewdesk/internal/infrastructure/websocket"
	"reviewdesk/internal/usecase"
	"reviewdesk/pkg/config"
	"reviewdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.BackendAuthToken)
	conversationRepo := backend.NewConversationRepository(backendClient)
	customerRepo := backend.NewCustomerRepository(backendClient)
	quickReplyRepo := backend.NewQuickReplyRepository(backendClient)
	preferenceRepo := backend.NewPreferenceRepository(backendClient)
	userRepo := backend.NewUserRepository(backendClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	channel := realtime.NewChannel(cfg.ChannelURL, realtime.Identity{
		UserID:   cfg.ReviewerID,
		Username: cfg.ReviewerUsername,
	})

	syncUseCase := usecase.NewChatSyncUseCase(conversationRepo, customerRepo, channel, wsManager, cfg.ReviewerID)
	quickReplyUseCase := usecase.NewQuickReplyUseCase(quickReplyRepo, cfg.ReviewerID, cfg.PageName)
	preferenceUseCase := usecase.NewPreferenceUseCase(preferenceRepo, cfg.ReviewerID)

	channel.OnStatusChange(syncUseCase.HandleConnectivity)

	subscription := channel.Subscribe(realtime.EventMessageReceived, func(data json.RawMessage) {
		var message entity.Message
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Warn("Dropping malformed receive_mess event: %v", err)
			return
		}
		syncUseCase.HandleInboundMessage(ctx, &message)
	})
	defer subscription.Unsubscribe()

	if err := channel.Dial(ctx); err != nil {
		// The console still works over HTTP; the UI shows the
		// connectivity indicator as offline.
		logger.Warn("Real-time channel unavailable: %v", err)
	}
	defer channel.Close()

	if _, err := syncUseCase.LoadConversations(ctx); err != nil {
		logger.Warn("Initial conversation load failed: %v", err)
	}
	if err := quickReplyUseCase.Load(ctx); err != nil {
		logger.Warn("Initial quick reply load failed: %v", err)
	}
	if _, err := preferenceUseCase.Load(ctx); err != nil {
		logger.Warn("Initial preference load failed: %v", err)
	}

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(custommiddleware.GeneralRateLimit())

	e.Validator = api.NewValidator()

	chatHandler := handler.NewChatHandler(syncUseCase, quickReplyUseCase)
	customerHandler := handler.NewCustomerHandler(syncUseCase)
	quickReplyHandler := handler.NewQuickReplyHandler(quickReplyUseCase, syncUseCase)
	preferenceHandler := handler.NewPreferenceHandler(preferenceUseCase)
	userHandler := handler.NewUserHandler(userRepo)
	wsHandler := handler.NewWebSocketHandler(wsManager)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":    "ok",
			"connected": channel.Connected(),
		})
	})

	router.SetupChatRouter(e, chatHandler, customerHandler)
	router.SetupSettingsRouter(e, quickReplyHandler, preferenceHandler)
	router.SetupUserRouter(e, userHandler)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting console on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
