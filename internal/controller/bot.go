package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/callbacks"
	"github.com/manictest/salon_bot/internal/controller/handlers"
	"github.com/manictest/salon_bot/internal/controller/state"
	"github.com/manictest/salon_bot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	masterService *service.MasterService,
	appointmentService *service.AppointmentService,
	calendarService *service.CalendarService,
	reviewService *service.ReviewService,
	settingService *service.SettingService,
	windowDays int,
	loc *time.Location,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний диалогов
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		masterService,
		appointmentService,
		calendarService,
		reviewService,
		settingService,
		stateManager,
		logger,
	)

	// Создаём обработчик колбэков
	callbackHandler := callbacks.NewHandler(
		masterService,
		appointmentService,
		calendarService,
		reviewService,
		settingService,
		stateManager,
		windowDays,
		loc,
		logger,
		cmdHandlers.ShowReviews,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды клиента
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reviews", bot.MatchTypeExact, c.handlers.HandleReviews)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/info", bot.MatchTypeExact, c.handlers.HandleInfo)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды персонала
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/masterpanel", bot.MatchTypeExact, c.handlers.HandleMasterPanel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/adminpanel", bot.MatchTypeExact, c.handlers.HandleAdminPanel)

	// Обработчик текстовых сообщений (шаги диалогов)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Главное меню"},
		{Command: "book", Description: "💅 Записаться к мастеру"},
		{Command: "mybookings", Description: "📋 Мои записи"},
		{Command: "reviews", Description: "⭐ Отзывы"},
		{Command: "info", Description: "ℹ️ О салоне"},
		{Command: "cancel", Description: "✋ Прервать диалог"},
		{Command: "help", Description: "❓ Справка"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
