package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/app"
	"github.com/manictest/salon_bot/internal/config"
	"github.com/manictest/salon_bot/internal/controller"
	"github.com/manictest/salon_bot/internal/notify"
	"github.com/manictest/salon_bot/internal/repository"
	"github.com/manictest/salon_bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting salon bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone),
		zap.Int("booking_window_days", cfg.BookingWindowDays))

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("✅ Connected to database")

	// Миграции
	migrator, err := app.NewMigrator(pool)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	ruleRepo := repository.NewWeekdayRuleRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	// Telegram бот
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Сервисы
	dispatcher := notify.NewTelegramDispatcher(b, outboxRepo, logger)
	calendarService := service.NewCalendarService(ruleRepo, availabilityRepo, userRepo, logger)
	appointmentService := service.NewAppointmentService(appointmentRepo, calendarService, userRepo, dispatcher, loc, logger)
	masterService := service.NewMasterService(userRepo, ruleRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, logger)
	settingService := service.NewSettingService(settingRepo, logger)

	if err := masterService.EnsureAdmins(ctx, cfg.AdminIDs); err != nil {
		logger.Fatal("Failed to ensure admins", zap.Error(err))
	}

	// Контроллер
	botController := controller.NewBotController(
		b,
		masterService,
		appointmentService,
		calendarService,
		reviewService,
		settingService,
		cfg.BookingWindowDays,
		loc,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновый свипер: прошедшие записи и напоминания
	sweeper := app.NewSweeper(appointmentService, loc, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	logger.Info("🚀 Salon bot is running")
	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Salon bot shut down")
}
