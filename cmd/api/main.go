package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/webotyou/backend/internal/analyzer"
	"github.com/webotyou/backend/internal/api/handlers"
	rediscache "github.com/webotyou/backend/internal/cache/redis"
	"github.com/webotyou/backend/internal/chat"
	"github.com/webotyou/backend/internal/llm"
	"github.com/webotyou/backend/internal/metrics"
	"github.com/webotyou/backend/internal/middleware/ratelimit"
	"github.com/webotyou/backend/internal/middleware/security"
	"github.com/webotyou/backend/internal/storage/sqlite"
	"github.com/webotyou/backend/pkg/config"
	appLogger "github.com/webotyou/backend/pkg/logger"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting WeBotYou API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	cacheTTL := time.Duration(cfg.Analyzer.CacheTTLMin) * time.Minute

	var profileCache *rediscache.Client
	if cfg.Redis.Enabled {
		profileCache, err = rediscache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cacheTTL,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without shared profile cache", zap.Error(err))
			profileCache = nil
		} else {
			defer profileCache.Close()
		}
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.AnalysisMaxTokens,
		cfg.LLM.ChatMaxTokens,
		cfg.LLM.TimeoutSec,
	)

	fetcher := analyzer.NewFetcher(cfg.Analyzer.UserAgent, cfg.Analyzer.FetchTimeoutSec)

	var analyzerService *analyzer.Service
	if profileCache != nil {
		analyzerService = analyzer.NewService(sqliteClient, profileCache, llmClient, fetcher, cfg.Analyzer.MaxContentChars, cacheTTL)
	} else {
		analyzerService = analyzer.NewService(sqliteClient, nil, llmClient, fetcher, cfg.Analyzer.MaxContentChars, cacheTTL)
	}

	chatService := chat.NewService(sqliteClient, llmClient, cfg.Chat.HistoryLimit, cfg.Chat.HistoryWindow)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Session-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(ratelimit.Config{
			MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
			Logger:               appLogger.GetLogger(),
		})
		defer limiter.Stop()
		app.Use("/api", limiter.Middleware())
	}

	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	chatHandler := handlers.NewChatHandler(chatService)
	contactHandler := handlers.NewContactHandler(sqliteClient)
	wsHandler := handlers.NewWebSocketHandler(chatService)

	api := app.Group("/api")

	api.Post("/analyze-website", analyzeHandler.HandleAnalyze)
	api.Post("/chat", chatHandler.HandleChat)
	api.Post("/contact", contactHandler.HandleContact)

	api.Use("/chat/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/chat/ws", websocket.New(wsHandler.HandleConnection))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
