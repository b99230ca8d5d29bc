package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/universererp/backend/internal/api"
	"github.com/universererp/backend/internal/assistant"
	"github.com/universererp/backend/internal/cache/redis"
	"github.com/universererp/backend/internal/forecast"
	"github.com/universererp/backend/internal/llm"
	"github.com/universererp/backend/internal/mail"
	"github.com/universererp/backend/internal/metrics"
	"github.com/universererp/backend/internal/middleware/ratelimit"
	"github.com/universererp/backend/internal/middleware/security"
	"github.com/universererp/backend/internal/middleware/validation"
	"github.com/universererp/backend/internal/storage"
	"github.com/universererp/backend/internal/storage/memory"
	"github.com/universererp/backend/internal/storage/mongo"
	"github.com/universererp/backend/pkg/config"
	appLogger "github.com/universererp/backend/pkg/logger"
)

func main() {
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

	appLogger.Info("Starting UniverserERP API Server")

	metrics.Init()

	ctx := context.Background()

	var store storage.Store
	mongoStore, err := mongo.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Database, time.Duration(cfg.Mongo.TimeoutSec)*time.Second)
	if err != nil {
		appLogger.Warn("MongoDB unreachable, falling back to in-memory store", zap.Error(err))
		store = memory.NewStore()
	} else {
		store = mongoStore
		defer mongoStore.Close(ctx)
	}

	var cache *redis.Client
	cache, err = redis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.HistoryTTL)*time.Second,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
	)
	if err != nil {
		appLogger.Warn("Redis unreachable, conversation history and caching disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
	}

	var llmClient *llm.Client
	if cfg.LLM.Enabled {
		llmClient = llm.NewClient(
			cfg.LLM.BaseURL,
			cfg.LLM.APIKey,
			cfg.LLM.Model,
			cfg.LLM.Temperature,
			cfg.LLM.MaxTokens,
			cfg.LLM.TimeoutSec,
		)
	}

	var mailer mail.Sender
	if cfg.Mail.Enabled {
		sesMailer, err := mail.NewMailer(ctx, cfg.Mail.Region, cfg.Mail.FromEmail, cfg.Server.BaseURL, appLogger.GetLogger())
		if err != nil {
			appLogger.Warn("SES unavailable, outbound mail disabled", zap.Error(err))
			mailer = &mail.LogSender{Logger: appLogger.GetLogger()}
		} else {
			mailer = sesMailer
		}
	} else {
		mailer = &mail.LogSender{Logger: appLogger.GetLogger()}
	}

	asst := assistant.New(store)
	forecastService := forecast.NewService(store, appLogger.GetLogger())

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		Logger: appLogger.GetLogger(),
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())

	app.Use(validation.Middleware(validation.Config{
		MaxMessageLength: cfg.Assistant.MaxMessageLength,
		Logger:           appLogger.GetLogger(),
	}))

	api.RegisterRoutes(app, api.Dependencies{
		Store:     store,
		Assistant: asst,
		LLM:       llmClient,
		Cache:     cache,
		Mailer:    mailer,
		Forecast:  forecastService,
	})

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
