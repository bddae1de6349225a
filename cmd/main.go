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

	"github.com/ecell-auctions/auction-system/config"
	"github.com/ecell-auctions/auction-system/db"
	"github.com/ecell-auctions/auction-system/handlers"
	"github.com/ecell-auctions/auction-system/live"
	"github.com/ecell-auctions/auction-system/repositories"
	api "github.com/ecell-auctions/auction-system/routes"
	"github.com/ecell-auctions/auction-system/services"
	"github.com/ecell-auctions/auction-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const migrationsPath = "migrations"

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

	if err := db.Migrate(dbConn, migrationsPath); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Snapshot uploader (Cloudflare R2) is optional: without config the
	// exporter only writes local files.
	var uploader storage.FileUploader
	if cfg.R2.Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Live auction feed
	feedHub := live.NewHub()
	go feedHub.Run()
	logger.Info("live feed hub started")

	// Инициализация репозиториев
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	txRunner := repositories.NewTxRunner(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(cfg.AdminSecret, cfg.JWTSecretKey)
	ledgerService := services.NewLedgerService(teamRepo, playerRepo)
	teamService := services.NewTeamService(teamRepo, playerRepo, txRunner, feedHub)
	playerService := services.NewPlayerService(playerRepo, teamRepo, txRunner, feedHub)
	exportService := services.NewExportService(teamRepo, playerRepo, uploader, cfg.ExportDir, logger)
	logger.Info("services initialized")

	// Периодический экспорт снапшота для статической раздачи
	exportInterval := time.Duration(cfg.ExportInterval) * time.Second
	go func() {
		ticker := time.NewTicker(exportInterval)
		defer ticker.Stop()
		logger.Info("snapshot export scheduler started", slog.Duration("interval", exportInterval))

		// Run once immediately at startup, then on ticker
		if err := exportService.Export(context.Background()); err != nil {
			logger.Error("exporter: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := exportService.Export(context.Background()); err != nil {
				logger.Error("exporter: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Статический сервер снапшота — отдельный процесс без общего состояния
	exportServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ExportPort),
		Handler: http.FileServer(http.Dir(cfg.ExportDir)),
	}
	go func() {
		logger.Info("starting snapshot file server", slog.String("address", exportServer.Addr))
		if err := exportServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("snapshot file server error", slog.Any("error", err))
		}
	}()

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService, ledgerService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	dashboardHandler := handlers.NewDashboardHandler(ledgerService, playerService)
	webSocketHandler := handlers.NewWebSocketHandler(feedHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		[]byte(cfg.JWTSecretKey),
		authHandler,
		teamHandler,
		playerHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

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

		if err := exportServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("snapshot file server shutdown failed", slog.Any("error", err))
		}

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
