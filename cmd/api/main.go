package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"adgallery/docs"
	"adgallery/internal/config"
	"adgallery/internal/database"
	"adgallery/internal/database/migration"
	"adgallery/internal/genai"
	handlers "adgallery/internal/http/handler"
	"adgallery/internal/http/middleware"
	"adgallery/internal/logging"
	"adgallery/internal/otel"
	"adgallery/internal/repository/mongodb"
	"adgallery/internal/service"
	"adgallery/internal/storage"
)

// @title Ad Gallery API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatal("tracing init failed", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	db, err := database.New(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}
	defer db.Close(context.Background())

	if err := migration.EnsureIndexes(ctx, db.Ads(), log); err != nil {
		log.Warn("index creation failed", zap.Error(err))
	}
	if err := migration.EnsureUserIndexes(ctx, db.Users(), log); err != nil {
		log.Warn("index creation failed", zap.Error(err))
	}

	// Object storage is optional: when MinIO is unreachable the disk
	// fallback still serves image persistence.
	var primary storage.Storage
	if cfg.MinIO.Endpoint != "" {
		primary, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Warn("minio unavailable, falling back to local storage", zap.Error(err))
			primary = nil
		}
	}
	fallback, err := storage.NewLocal(cfg.Local)
	if err != nil {
		log.Fatal("local storage init failed", zap.Error(err))
	}

	adRepo := mongodb.NewAdMongo(db.Ads())
	userRepo := mongodb.NewUserMongo(db.Users())

	anthropic := genai.NewAnthropic(cfg.GenAI)
	var flux genai.ImageModel
	if cfg.GenAI.FluxEndpoint != "" {
		flux = genai.NewFlux(cfg.GenAI)
	}
	var gemini genai.ImageModel
	if cfg.GenAI.GeminiKey != "" {
		gemini = genai.NewGemini(cfg.GenAI)
	}

	gallerySvc := service.NewGalleryService(adRepo, primary, fallback, log)
	promptSvc := service.NewPromptService(anthropic, log)
	imageSvc := service.NewImageService(flux, gemini, primary, fallback, log)
	userSvc := service.NewUserService(userRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(time.UTC))

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("prometheus init failed", zap.Error(err))
	}
	app.Use(promMiddleware.Handler())
	app.Use(otelfiber.Middleware())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:               db,
		Gallery:          gallerySvc,
		Prompts:          promptSvc,
		Images:           imageSvc,
		Users:            userSvc,
		DefaultWorkspace: cfg.DefaultWorkspace,
		LocalImagesDir:   cfg.Local.Dir,
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
