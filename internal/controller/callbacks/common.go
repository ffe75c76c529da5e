package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/keyboard"
)

// handleBackToMain возвращает в главное меню и сбрасывает диалог
func (h *Handler) handleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, err := h.user(ctx, callback)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.stateManager.Clear(user.TelegramID)
	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback), "💅 Главное меню", keyboard.MainMenu(user))
}
