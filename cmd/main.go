package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hariom00027/hackathon-system/config"
	"github.com/Hariom00027/hackathon-system/db"
	"github.com/Hariom00027/hackathon-system/handlers"
	"github.com/Hariom00027/hackathon-system/live"
	"github.com/Hariom00027/hackathon-system/repositories"
	api "github.com/Hariom00027/hackathon-system/routes"
	"github.com/Hariom00027/hackathon-system/services"
	"github.com/Hariom00027/hackathon-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	hackathonRepo := repositories.NewPostgresHackathonRepository(dbConn)
	applicationRepo := repositories.NewPostgresApplicationRepository(dbConn)
	logger.Info("Repositories initialized")

	// Уведомления: websocket всегда, почта только при настроенном SMTP.
	var emailSender services.EmailSender
	if cfg.SMTPHost != "" {
		emailSender = services.NewEmailService(cfg)
		logger.Info("SMTP notifications enabled", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Warn("SMTP is not configured, email notifications disabled")
	}
	notifier := services.NewNotifier(wsHub, emailSender, logger)

	// Инициализация сервисов
	deadlines := services.NewDeadlineParser(logger)
	gate := services.NewEligibilityGate(deadlines)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	hackathonService := services.NewHackathonService(hackathonRepo)
	applicationService := services.NewApplicationService(
		applicationRepo,
		hackathonRepo,
		userRepo,
		gate,
		deadlines,
		notifier,
		logger,
		cfg.ResultBaseURL,
	)
	rankingService := services.NewRankingService(
		applicationRepo,
		hackathonRepo,
		notifier,
		logger,
		cfg.ResultBaseURL,
	)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService)
	hackathonHandler := handlers.NewHackathonHandler(hackathonService, rankingService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	uploadHandler := handlers.NewUploadHandler(uploader, applicationService, hackathonService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, hackathonService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authService,
		authHandler,
		hackathonHandler,
		applicationHandler,
		uploadHandler,
		webSocketHandler,
		cfg.CORSAllowedOrigins,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
