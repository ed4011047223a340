package bootstrap

import (
	"context"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/chat/agent"
	"ai-assistant-be/pkg/chat/orchestrator"
	"ai-assistant-be/pkg/document"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/mcp"
	"ai-assistant-be/pkg/speech"

	pktNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	OAuthController  controller.IOAuthController
	ThreadController controller.IThreadController

	// Background Services (Exposed for main.go to run)
	TitleService service.ITitleService

	// WebSockets
	ChatHandler         *handler.ChatHandler
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	apiKey := cfg.Keys.GoogleGemini
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		apiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	authService := service.NewAuthService(uowFactory, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	threadService := service.NewThreadService(uowFactory)
	titleService := service.NewTitleService(
		pubSub,
		cfg.Keys.TitleTopic,
		uowFactory,
		llmProvider,
		natsPub,
		sysLogger,
	)

	// Chat collaborators
	documentProcessor := document.NewProcessor(llmProvider)
	transcriber := speech.NewOpenAITranscriber(cfg.Keys.OpenAI, cfg.Ai.TranscriberModel)
	toolClient := mcp.NewClient(map[string]mcp.Endpoint{
		"tavily": {
			URL:         cfg.Mcp.TavilyURL,
			BearerToken: cfg.Mcp.TavilyToken,
		},
	})

	agentRunner := agent.NewRunner(llmProvider)
	chatOrchestrator := orchestrator.NewOrchestrator(
		agentRunner,
		documentProcessor,
		transcriber,
		toolClient,
		threadService,
		titleService,
		sessionRepo,
		sysLogger,
	)

	// 3.5 Notification System
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery
	if natsSub != nil {
		go notifService.Start()
	}

	// 4. Handlers & Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		OAuthController:  controller.NewOAuthController(oauthService),
		ThreadController: controller.NewThreadController(threadService),

		TitleService: titleService,

		ChatHandler:         handler.NewChatHandler(chatOrchestrator, sysLogger),
		NotificationHandler: handler.NewNotificationHandler(natsPub, wsHub, wsLogger),
		WebSocketHub:        wsHub,
	}
}
