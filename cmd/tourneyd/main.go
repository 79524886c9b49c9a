package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cueclub/tournament-engine/config"
	"github.com/cueclub/tournament-engine/db"
	"github.com/cueclub/tournament-engine/repositories"
	"github.com/cueclub/tournament-engine/services"
	"github.com/robfig/cron/v3"
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
	logger.Info("configuration loaded", slog.String("scheduler", cfg.SchedulerSpec))

	// Подключение к базе данных
	dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, 5*time.Second)
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

	// Инициализация репозиториев
	transactor := repositories.NewSQLTransactor(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(
		transactor,
		tournamentRepo,
		playerRepo,
		groupRepo,
		gameRepo,
		scoreRepo,
		logger,
	)
	logger.Info("services initialized")

	// Запуск планировщика автоматического старта турниров
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SchedulerSpec, func() {
		if err := tournamentService.AutoStartDue(context.Background()); err != nil {
			logger.Error("scheduler: auto-start run failed", slog.Any("error", err))
		}
	}); err != nil {
		logger.Error("failed to register scheduler job", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("tournament auto-start scheduler started", slog.String("spec", cfg.SchedulerSpec))

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info("scheduler stopped")
	case <-time.After(15 * time.Second):
		logger.Error("scheduler did not stop within timeout")
	}
	logger.Info("application exited")
}
