package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/cache"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/forecast"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/kb"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/vector"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/handlers"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/services"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/allweather-bi-be/cmd/api/docs"
)

// @title All Weather BI API
// @version 1.0
// @description Dashboard API for sales, social media, ads and site analytics
// @contact.name API Support
// @contact.email dev@allweather.com.br
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	seedAdmin := flag.String("seed-admin", "", "create or reset an admin account (email:password) and exit")
	flag.Parse()

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)

	db, err := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	authService := auth.NewService(auth.NewRepository(db.GORM), cfg.JWTSecret)

	if *seedAdmin != "" {
		runSeedAdmin(authService, *seedAdmin)
		db.Close()
		return
	}

	// Cache: redis when configured, otherwise every read goes to the database
	var store cache.Store = cache.Nop{}
	healthChecks := map[string]handlers.HealthCheck{}
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		} else {
			store = redisStore
			healthChecks["redis"] = redisStore.Ping
		}
	}

	// Repositories and page services
	loc := cfg.Location()
	tableRepo := repositories.NewTableRepo(db.GORM)
	chatRepo := repositories.NewChatRepo(db.GORM)
	healthChecks["database"] = tableRepo.Ping

	dataset := services.NewDatasetService(tableRepo, store, cfg.CacheTTL, loc)
	shopifyService := services.NewShopifyService(dataset, forecast.NewCalculator(cfg.ForecastHorizonDays))
	instagramService := services.NewInstagramService(dataset)
	metaAdsService := services.NewMetaAdsService(dataset)
	gaService := services.NewGoogleAnalyticsService(dataset)
	clarityService := services.NewClarityService(dataset)
	reportService := services.NewReportService(shopifyService, instagramService, metaAdsService, export.NewService(), cfg.ForecastHorizonDays)

	// Chat assistant: LLM, embeddings and the Qdrant knowledge base
	llmService, err := llm.NewService(llm.ProviderConfig{
		Type:        llm.ProviderType(cfg.LLMProvider),
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM service")
	}

	embedding, err := vector.NewOpenAIEmbeddingProvider(cfg.OpenAIKey, cfg.EmbeddingModel, "")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize embedding provider")
	}
	vectorService := vector.NewService(vector.NewQdrantProvider(vector.QdrantConfig{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
		UseTLS: cfg.QdrantUseTLS,
	}), embedding)
	if err := vectorService.Initialize(context.Background()); err != nil {
		// the dashboards still work; chat answers 502 until Qdrant is back
		log.Error().Err(err).Msg("Vector store unavailable")
	}

	knowledgeBase := kb.NewKnowledgeBase(vectorService, cfg.QdrantCollection)
	chatService := services.NewChatService(dataset, knowledgeBase, llmService, chatRepo)

	// Background jobs
	jobs := scheduler.NewScheduler()
	if err := registerJobs(jobs, cfg, dataset, chatService); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule background jobs")
	}
	jobs.Start()

	// Handlers
	windows := handlers.NewWindowParser(loc)
	router := &handlers.Router{
		Shopify:         handlers.NewShopifyHandler(shopifyService, windows, cfg.ForecastHorizonDays),
		Instagram:       handlers.NewInstagramHandler(instagramService, windows),
		MetaAds:         handlers.NewMetaAdsHandler(metaAdsService, windows),
		GoogleAnalytics: handlers.NewGoogleAnalyticsHandler(gaService, windows),
		Clarity:         handlers.NewClarityHandler(clarityService, windows),
		Chat:            handlers.NewChatHandler(chatService),
		Export:          handlers.NewExportHandler(reportService, windows),
	}
	healthHandler := handlers.NewHealthHandler(healthChecks)
	authHandler := auth.NewHandler(authService)

	app := fiber.New(fiber.Config{
		AppName:      "All Weather BI API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(handlers.RequestLogger())

	// Public routes
	app.Get("/health", healthHandler.GetHealth)
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/refresh", authHandler.RefreshToken)

	// Authenticated routes
	api := app.Group("/api/v1", auth.AuthMiddleware(authService))
	api.Get("/auth/me", authHandler.Me)
	api.Post("/auth/logout", authHandler.Logout)
	router.Register(api)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("API listening")
		log.Info().Msgf("Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down...")
	jobs.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Database close")
	}
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("Cache close")
	}
	if err := vectorService.Close(); err != nil {
		log.Error().Err(err).Msg("Vector store close")
	}
	log.Info().Msg("Shutdown complete")
}

// registerJobs schedules the cache warm-up, only useful with redis, and the
// knowledge base reindex
func registerJobs(jobs *scheduler.Scheduler, cfg *config.Config, dataset *services.DatasetService, chat *services.ChatService) error {
	if dataset.Cached() {
		if err := jobs.Add(scheduler.JobCacheWarmup, cfg.RefreshSchedule, dataset.Warm); err != nil {
			return fmt.Errorf("REFRESH_SCHEDULE: %w", err)
		}
	} else {
		log.Info().Msg("No cache configured, skipping cache warm-up job")
	}

	err := jobs.Add(scheduler.JobKBReindex, cfg.ReindexSchedule, func(ctx context.Context) error {
		_, err := chat.Reindex(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("REINDEX_SCHEDULE: %w", err)
	}
	return nil
}

func runSeedAdmin(authService *auth.Service, arg string) {
	email, password, ok := strings.Cut(arg, ":")
	if !ok {
		log.Fatal().Msg("-seed-admin expects email:password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := authService.SeedAdmin(ctx, email, password); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin")
	}
}

// errorHandler keeps fiber errors in the same JSON shape as handler errors
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   strings.ToLower(strings.ReplaceAll(http.StatusText(code), " ", "_")),
		"message": err.Error(),
	})
}
