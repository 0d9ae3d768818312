package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/shubhamsharma-10/CloudDrive/internal/database"
	"github.com/shubhamsharma-10/CloudDrive/internal/handlers"
	"github.com/shubhamsharma-10/CloudDrive/internal/middleware"
	"github.com/shubhamsharma-10/CloudDrive/internal/services"
	"github.com/shubhamsharma-10/CloudDrive/internal/storage"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	ctx := context.Background()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	objectStore, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("object storage initialization failed: %v", err)
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed ensuring storage bucket: %v", err)
	}

	stateStore, err := services.NewStateStore(ctx, cfg)
	if err != nil {
		log.Fatalf("oauth state store initialization failed: %v", err)
	}

	fileService := services.NewFileService(db, objectStore, cfg.Share.URLExpiry)
	ssoService := services.NewSSOService(db, cfg)
	oauthService := services.NewOAuthProviderService(cfg)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(middleware.SecurityLogger())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Auth:  handlers.NewAuthHandler(db),
		Files: handlers.NewFilesHandler(fileService, cfg.Upload.MaxBytes, cfg.Server.FrontendURL),
		SSO:   handlers.NewSSOHandler(cfg, ssoService, oauthService, stateStore),
	}, authMiddleware)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":           cfg.Server.Port,
		"address":        listenAddr,
		"db_driver":      cfg.DB.Driver,
		"storage_driver": cfg.Storage.Driver,
		"sso_providers":  oauthService.EnabledProviders(),
		"body_limit":     cfg.BodyLimit(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Printf("forced shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Printf("server error: %v", err)
		}
	}

	if closer, ok := stateStore.(io.Closer); ok {
		_ = closer.Close()
	}
	if err := database.Close(db); err != nil {
		log.Printf("failed closing database: %v", err)
	}
	logger.Info("server_stopped", nil)
}
