// Package callbacks обрабатывает callback query от inline клавиатур
package callbacks

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/state"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/service"
)

// Handler содержит зависимости обработчиков колбэков
type Handler struct {
	masters      *service.MasterService
	appointments *service.AppointmentService
	calendar     *service.CalendarService
	reviews      *service.ReviewService
	settings     *service.SettingService
	stateManager *state.Manager
	windowDays   int
	loc          *time.Location
	logger       *zap.Logger

	// showReviews переиспользует вывод отзывов из пакета handlers
	showReviews func(ctx context.Context, b *bot.Bot, chatID int64, user *model.User)
}

// NewHandler создаёт обработчик колбэков
func NewHandler(
	masters *service.MasterService,
	appointments *service.AppointmentService,
	calendar *service.CalendarService,
	reviews *service.ReviewService,
	settings *service.SettingService,
	stateManager *state.Manager,
	windowDays int,
	loc *time.Location,
	logger *zap.Logger,
	showReviews func(ctx context.Context, b *bot.Bot, chatID int64, user *model.User),
) *Handler {
	return &Handler{
		masters:      masters,
		appointments: appointments,
		calendar:     calendar,
		reviews:      reviews,
		settings:     settings,
		stateManager: stateManager,
		windowDays:   windowDays,
		loc:          loc,
		logger:       logger,
		showReviews:  showReviews,
	}
}

// HandleCallbackQuery — главный обработчик callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID))

	h.route(ctx, b, callback)
}

func (h *Handler) now() time.Time {
	return time.Now().In(h.loc)
}
