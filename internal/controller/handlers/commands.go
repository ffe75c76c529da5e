package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/common"
	"github.com/manictest/salon_bot/internal/controller/keyboard"
	"github.com/manictest/salon_bot/internal/controller/state"
	"github.com/manictest/salon_bot/internal/model"
)

const defaultInfoText = "💅 Добро пожаловать в наш салон!\n\nЗдесь вы можете записаться к мастеру, посмотреть свои записи и оставить отзыв."

// HandleStart — /start: регистрация и главное меню
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, err := h.user(ctx, update)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		return
	}

	h.stateManager.Clear(user.TelegramID)

	info, err := h.settings.InfoText(ctx)
	if err != nil {
		h.logger.Error("Failed to load info text", zap.Error(err))
	}
	if info == "" {
		info = defaultInfoText
	}

	h.sendKb(ctx, b, update.Message.Chat.ID, info, keyboard.MainMenu(user))
}

// HandleHelp — /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.send(ctx, b, update.Message.Chat.ID,
		"Команды:\n"+
			"/start — главное меню\n"+
			"/book — записаться к мастеру\n"+
			"/mybookings — мои записи\n"+
			"/reviews — отзывы\n"+
			"/info — информация о салоне\n"+
			"/cancel — прервать текущий диалог")
}

// HandleInfo — /info: информационный текст салона и ссылка на группу
func (h *Handlers) HandleInfo(ctx context.Context, b *bot.Bot, update *models.Update) {
	info, err := h.settings.InfoText(ctx)
	if err != nil {
		h.logger.Error("Failed to load info text", zap.Error(err))
	}
	if info == "" {
		info = defaultInfoText
	}

	groupURL, err := h.settings.GroupURL(ctx)
	if err != nil {
		h.logger.Error("Failed to load group url", zap.Error(err))
	}
	if groupURL == "" {
		h.send(ctx, b, update.Message.Chat.ID, info)
		return
	}

	h.sendKb(ctx, b, update.Message.Chat.ID, info, keyboard.InfoLinks(groupURL))
}

// HandleBook — /book: начало диалога бронирования
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	h.stateManager.Clear(telegramID)
	h.stateManager.SetState(telegramID, state.StateBookingName)

	h.send(ctx, b, update.Message.Chat.ID,
		"💅 Запись к мастеру\n\nКак вас зовут?\n\nДля отмены используйте /cancel")
}

// HandleMyBookings — /mybookings: записи клиента
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	appts, err := h.appointments.ListByClient(ctx, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to list client appointments", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось получить записи, попробуйте позже")
		return
	}

	if len(appts) == 0 {
		h.send(ctx, b, chatID, "У вас пока нет записей. Нажмите /book, чтобы записаться!")
		return
	}

	h.send(ctx, b, chatID, "📋 Ваши записи:")
	for _, a := range appts {
		masterName := ""
		if master, err := h.masters.GetByTelegramID(ctx, a.MasterID); err == nil && master != nil {
			masterName = master.DisplayName()
		}

		line := common.ClientAppointmentLine(a, masterName)
		if a.IsActive() {
			h.sendKb(ctx, b, chatID, line, keyboard.ClientAppointment(a.ID))
		} else {
			h.send(ctx, b, chatID, line)
		}
	}
}

// HandleReviews — /reviews: последние отзывы
func (h *Handlers) HandleReviews(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, err := h.user(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		return
	}

	h.ShowReviews(ctx, b, update.Message.Chat.ID, user)
}

// ShowReviews выводит отзывы; используется и командой, и колбэком
func (h *Handlers) ShowReviews(ctx context.Context, b *bot.Bot, chatID int64, user *model.User) {
	reviews, err := h.reviews.List(ctx, 10)
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось получить отзывы")
		return
	}

	text := "⭐ Отзывов пока нет. Станьте первым!"
	if len(reviews) > 0 {
		text = "⭐ Последние отзывы:\n"
		for _, r := range reviews {
			text += "\n" + common.ReviewLine(r) + "\n"
		}
	}

	h.sendKb(ctx, b, chatID, text, keyboard.Reviews(user.IsAdmin, reviews))
}

// HandleCancel — /cancel: сброс текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.send(ctx, b, update.Message.Chat.ID, "Нет активного диалога. /start — главное меню")
		return
	}

	h.stateManager.Clear(telegramID)
	h.send(ctx, b, update.Message.Chat.ID, "Диалог прерван. /start — главное меню")
}

// HandleMasterPanel — /masterpanel: панель мастера
func (h *Handlers) HandleMasterPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireMaster(ctx, b, update); !ok {
		return
	}

	h.sendKb(ctx, b, update.Message.Chat.ID, "🗓 Панель мастера", keyboard.MasterPanel())
}

// HandleAdminPanel — /adminpanel: панель администратора
func (h *Handlers) HandleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}

	h.sendKb(ctx, b, update.Message.Chat.ID, "⚙️ Админ-панель", keyboard.AdminPanel())
}
