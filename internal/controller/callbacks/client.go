package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/controller/common"
	"github.com/manictest/salon_bot/internal/controller/keyboard"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/service"
)

// handleMyBookings — записи клиента с кнопки меню
func (h *Handler) handleMyBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	chatID := h.chatID(callback)

	appts, err := h.appointments.ListByClient(ctx, callback.From.ID)
	if err != nil {
		h.logger.Error("Failed to list client appointments", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")

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

// handleClientCancel — клиент нажал «отменить», просим подтверждение
func (h *Handler) handleClientCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	apptID, err := parseID(callback.Data, cbdata.ClientCancel)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback),
		"Точно отменить запись?",
		keyboard.CancelConfirm(apptID))
}

// handleConfirmCancel — клиент подтвердил отмену своей записи
func (h *Handler) handleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	apptID, err := parseID(callback.Data, cbdata.ConfirmCancel)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	user, err := h.user(ctx, callback)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	_, err = h.appointments.Transition(ctx, apptID, model.AppointmentStatusCancelled, service.ActorFrom(user))
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.send(ctx, b, h.chatID(callback), "❌ Запись отменена. Будем рады видеть вас снова!")
}
