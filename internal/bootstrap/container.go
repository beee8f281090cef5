package bootstrap

import (
	"context"
	"log"

	"ai-concierge-be/internal/config"
	"ai-concierge-be/internal/controller"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/pkg/mailer"
	"ai-concierge-be/internal/repository/implementation"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/internal/service"
	"ai-concierge-be/pkg/catalog"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/llm/factory"
	"ai-concierge-be/pkg/notify"
	"ai-concierge-be/pkg/reco/disclosure"
	"ai-concierge-be/pkg/reco/retrieval"
	"ai-concierge-be/pkg/relay"
	"ai-concierge-be/pkg/relay/idempotency"

	pktNats "ai-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController controller.IChatbotController
	RagController     controller.IRagController
	CatalogController controller.ICatalogController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	RelayWorker     service.IRelayWorkerService
	CatalogService  service.ICatalogService

	Logger logger.ILogger
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

	// 3. AI capabilities
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Catalog index backend
	var index catalog.Index
	if cfg.Reco.CatalogIndex == "pgvector" {
		index = implementation.NewPgCatalogIndex(db)
		log.Printf("[INFO] Using Catalog Index: PGVECTOR")
	} else {
		index = catalog.NewMemoryIndex()
		log.Printf("[INFO] Using Catalog Index: MEMORY")
	}

	// 5. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis (only dialed when the durable idempotency backend is selected)
	var idemStore idempotency.Store
	if cfg.Relay.IdempotencyBackend == "redis" {
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
		idemStore = idempotency.NewRedisStore(rdb)
		log.Printf("[INFO] Using Idempotency Backend: REDIS")
	} else {
		idemStore = idempotency.NewMemoryStore()
		log.Printf("[INFO] Using Idempotency Backend: MEMORY")
	}

	// 6. Outbound notifiers
	var notifiers []notify.Notifier
	if cfg.Relay.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Relay.SlackWebhookURL))
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.TeamEmail != "" {
		notifiers = append(notifiers, mailer.NewEmailNotifier(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
			cfg.SMTP.TeamEmail,
		))
	}
	notifier := notify.NewMulti(notifiers...)

	// 7. Relay pipeline
	relayLogger := logger.NewIsolatedLogger(cfg.Relay.RelayLogFilePath)
	classifier := relay.NewClassifier()
	dispatcher := relay.NewDispatcher(idemStore, notifier)

	// 8. Domain services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.EmbedServiceTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedServiceTopic,
		uowFactory,
		embeddingProvider,
		index,
		sysLogger,
	)

	catalogService := service.NewCatalogService(uowFactory, publisherService, index, sysLogger)

	recoCache := memory.NewRecommendationCache()
	engine := retrieval.NewEngine(embeddingProvider, index)
	enricher := disclosure.NewEnricher(llmProvider)
	recommendationService := service.NewRecommendationService(
		uowFactory,
		engine,
		enricher,
		recoCache,
		cfg.Reco.DefaultLimit,
		sysLogger,
	)

	chatEventService := service.NewChatEventService(
		uowFactory,
		natsPub,
		classifier,
		dispatcher,
		recoCache,
		sysLogger,
	)

	var relayWorker service.IRelayWorkerService
	if natsSub != nil {
		relayWorker = service.NewRelayWorkerService(
			natsSub,
			uowFactory,
			classifier,
			dispatcher,
			relayLogger,
		)
	}

	// 9. Controllers
	return &Container{
		ChatbotController: controller.NewChatbotController(chatEventService, recommendationService),
		RagController:     controller.NewRagController(recommendationService),
		CatalogController: controller.NewCatalogController(catalogService),

		ConsumerService: consumerService,
		RelayWorker:     relayWorker,
		CatalogService:  catalogService,

		Logger: sysLogger,
	}
}
