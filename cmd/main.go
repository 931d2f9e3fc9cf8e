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

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// reconcilerInterval — как часто фоновый процесс проверяет согласованность
// победителей с записанным счётом.
const reconcilerInterval = 5 * time.Minute

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Int("frames_per_match", cfg.FramesPerMatch))

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
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
	txRunner := repositories.NewSQLTxRunner(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	matchResultRepo := repositories.NewPostgresMatchResultRepository(dbConn)
	frameResultRepo := repositories.NewPostgresFrameResultRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	emailService := services.NewEmailService(cfg)
	teamService := services.NewTeamService(teamRepo, playerRepo, cloudflareUploader)
	playerService := services.NewPlayerService(playerRepo, teamRepo, cloudflareUploader)
	matchService := services.NewMatchService(
		txRunner,
		matchRepo,
		matchResultRepo,
		frameResultRepo,
		teamRepo,
		cfg.FramesPerMatch,
		wsHub,
		logger,
	)
	frameService := services.NewFrameService(matchRepo, frameResultRepo, playerRepo, lineupRepo, cfg.FramesPerMatch)
	lineupService := services.NewLineupService(lineupRepo, matchRepo, playerRepo, cfg.FramesPerMatch)
	standingService := services.NewStandingService(teamRepo, matchRepo)
	reconcilerService := services.NewReconcilerService(txRunner, matchRepo, matchResultRepo, teamRepo, wsHub, logger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, emailService, logger)
	logger.Info("Services initialized")

	// Фоновая сверка победителей: исторически ручные правки и массовые
	// загрузки рассинхронизировали winner_team_id со счётом.
	go func() {
		ticker := time.NewTicker(reconcilerInterval)
		defer ticker.Stop()
		logger.Info("Winner reconciler started", slog.Duration("interval", reconcilerInterval))

		// Один прогон сразу на старте, дальше по тикеру.
		if report, err := reconcilerService.ReconcileAll(context.Background()); err != nil {
			logger.Error("Reconciler: initial run failed", slog.Any("error", err))
		} else if report.Repaired > 0 || report.Failed > 0 {
			logger.Info("Reconciler: initial run finished",
				slog.Int("checked", report.Checked), slog.Int("repaired", report.Repaired), slog.Int("failed", report.Failed))
		}

		for range ticker.C {
			report, err := reconcilerService.ReconcileAll(context.Background())
			if err != nil {
				logger.Error("Reconciler: periodic run failed", slog.Any("error", err))
				continue
			}
			if report.Repaired > 0 || report.Failed > 0 {
				logger.Info("Reconciler: periodic run finished",
					slog.Int("checked", report.Checked), slog.Int("repaired", report.Repaired), slog.Int("failed", report.Failed))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	authMiddleware := middleware.NewAuth(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService, playerService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	matchHandler := handlers.NewMatchHandler(matchService, frameService, lineupService)
	standingHandler := handlers.NewStandingHandler(standingService, reconcilerService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		authHandler,
		teamHandler,
		playerHandler,
		matchHandler,
		standingHandler,
		notificationHandler,
		webSocketHandler,
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
