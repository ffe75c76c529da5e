package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/controller/common"
	"github.com/manictest/salon_bot/internal/controller/keyboard"
	"github.com/manictest/salon_bot/internal/controller/state"
)

const adminBookingsLimit = 20

// handleAdminPanel показывает админ-панель
func (h *Handler) handleAdminPanel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireAdmin(ctx, b, callback); !ok {
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback), "⚙️ Админ-панель", keyboard.AdminPanel())
}

// handleAdminMasters — ростер мастеров
func (h *Handler) handleAdminMasters(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireAdmin(ctx, b, callback); !ok {
		return
	}

	masters, err := h.masters.ListMasters(ctx)
	if err != nil {
		h.logger.Error("Failed to list masters", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	text := "👩‍🎨 Мастера салона:"
	if len(masters) == 0 {
		text = "Мастеров пока нет. Добавьте первого!"
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback), text, keyboard.AdminMasters(masters))
}

// handleAdminAddMaster запускает диалог добавления мастера
func (h *Handler) handleAdminAddMaster(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireAdmin(ctx, b, callback); !ok {
		return
	}

	telegramID := callback.From.ID
	h.stateManager.Clear(telegramID)
	h.stateManager.SetState(telegramID, state.StateAdminAddMasterID)

	h.answer(ctx, b, callback.ID, "")
	h.send(ctx, b, h.chatID(callback),
		"Введите telegram id нового мастера (его можно узнать через @userinfobot):")
}

// handleAdminDelMaster деактивирует мастера; история записей сохраняется
func (h *Handler) handleAdminDelMaster(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireAdmin(ctx, b, callback); !ok {
		return
	}

	masterID, err := parseID(callback.Data, cbdata.AdminDelMaster)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	if err := h.masters.RevokeMaster(ctx, masterID); err != nil {
		h.logger.Error("Failed to revoke master", zap.Int64("master_id", masterID), zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	masters, err := h.masters.ListMasters(ctx)
	if err != nil {
		h.logger.Error("Failed to list masters", zap.Error(err))
		h.answer(ctx, b, callback.ID, "✅ Мастер деактивирован")
		return
	}

	h.answer(ctx, b, callback.ID, "✅ Мастер деактивирован")
	h.editKb(ctx, b, callback, keyboard.AdminMasters(masters))
}

// handleAdminBookings — последние записи салона
func (h *Handler) handleAdminBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireAdmin(ctx, b, callback); !ok {
		return
	}

	appts, err := h.appointments.ListAll(ctx, adminBookingsLimit)
	if err != nil {
		h.logger.Error("Failed to list appointments", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")

	if len(appts) == 0 {
		h.send(ctx, b, h.chatID(callback), "Записей пока нет")
		return
	}

	text := "📒 Последние записи:\n"
	for _, a := range appts {
		text += "\n" + common.AppointmentLine(a)
	}
	h.send(ctx, b, h.chatID(callback), text)
}

// handleAdminEditInfo запускает ввод нового инфо-текста
func (h *Handler) handleAdminEditInfo(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireAdmin(ctx, b, callback); !ok {
		return
	}

	telegramID := callback.From.ID
	h.stateManager.Clear(telegramID)
	h.stateManager.SetState(telegramID, state.StateAdminInfoText)

	current, err := h.settings.InfoText(ctx)
	if err != nil {
		h.logger.Error("Failed to load info text", zap.Error(err))
	}

	text := "📝 Пришлите новый инфо-текст одним сообщением."
	if current != "" {
		text += "\n\nТекущий:\n" + current
	}

	h.answer(ctx, b, callback.ID, "")
	h.send(ctx, b, h.chatID(callback), text)
}
