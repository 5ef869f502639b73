package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-briefbuilder-be/internal/config"
	"ai-briefbuilder-be/internal/controller"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/internal/repository/memory"
	"ai-briefbuilder-be/internal/repository/unitofwork"
	"ai-briefbuilder-be/internal/service"
	"ai-briefbuilder-be/pkg/database"
	"ai-briefbuilder-be/pkg/events"
	"ai-briefbuilder-be/pkg/generation"
	"ai-briefbuilder-be/pkg/llm/factory"
	"ai-briefbuilder-be/pkg/savestatus"

	pktNats "ai-briefbuilder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DraftController   controller.IDraftController
	BriefController   controller.IBriefController
	ProductController controller.IProductController
	HealthController  controller.IHealthController

	// AutosaveConsumer is nil in degraded mode.
	AutosaveConsumer service.IAutosaveConsumerService

	Logger      *logger.ZapLogger
	Persistence bool

	closers []func()
}

// NewContainer wires every service. A nil db starts the server in degraded mode: the
// wizard works in memory, persistence-only endpoints answer STORE_UNAVAILABLE.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger, Persistence: db != nil}

	var uowFactory unitofwork.RepositoryFactory
	var ping controller.Pinger
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	} else {
		log.Println("[WARN] No database connection: running with persistence disabled")
	}

	// Generation
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Keys.HuggingFace,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	generationService := service.NewGenerationService(
		generation.NewGenerator(llmProvider),
		cfg.Draft.GenerationTimeout,
		sysLogger,
	)

	// Save status
	saveStatus := c.newSaveStatusTracker(cfg)

	// Lifecycle events
	var eventPublisher events.Publisher = events.NoopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Autosave bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	publisherService := service.NewPublisherService(cfg.Draft.AutosaveTopic, pubSub)
	autosaveQueue := service.NewAutosaveQueue(publisherService)
	if uowFactory != nil {
		autosaveLogger := logger.NewIsolatedLogger("logs/autosave.log")
		c.closers = append(c.closers, func() { _ = autosaveLogger.Sync() })
		c.AutosaveConsumer = service.NewAutosaveConsumerService(
			pubSub,
			cfg.Draft.AutosaveTopic,
			uowFactory,
			saveStatus,
			autosaveLogger,
		)
	}

	drafts := memory.NewDraftRepository(cfg.Draft.CacheTTL)

	draftService := service.NewDraftService(
		uowFactory,
		drafts,
		generationService,
		autosaveQueue,
		saveStatus,
		eventPublisher,
		sysLogger,
	)
	briefService := service.NewBriefService(uowFactory, drafts, eventPublisher, sysLogger)
	productService := service.NewProductService(uowFactory)

	c.DraftController = controller.NewDraftController(draftService)
	c.BriefController = controller.NewBriefController(briefService)
	c.ProductController = controller.NewProductController(productService)
	c.HealthController = controller.NewHealthController(ping)

	return c
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "huggingface" {
		return cfg.Ai.HFBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}

// newSaveStatusTracker uses redis when configured and reachable, process memory otherwise.
func (c *Container) newSaveStatusTracker(cfg *config.Config) savestatus.Tracker {
	ttl := cfg.Draft.CacheTTL
	if cfg.Draft.SaveStatusBackend != "redis" {
		return savestatus.NewMemoryTracker(ttl)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Save status kept in memory", err)
		_ = rdb.Close()
		return savestatus.NewMemoryTracker(ttl)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return savestatus.NewRedisTracker(rdb, ttl)
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
