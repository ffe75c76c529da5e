package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/controller/state"
)

// handleReviews показывает отзывы с кнопки меню
func (h *Handler) handleReviews(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, err := h.user(ctx, callback)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.showReviews(ctx, b, h.chatID(callback), user)
}

// handleLeaveReview запускает ввод текста отзыва
func (h *Handler) handleLeaveReview(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	telegramID := callback.From.ID

	h.stateManager.Clear(telegramID)
	h.stateManager.SetState(telegramID, state.StateReviewText)

	h.answer(ctx, b, callback.ID, "")
	h.send(ctx, b, h.chatID(callback), "✍️ Напишите ваш отзыв одним сообщением:")
}

// handleAdminDelReview удаляет отзыв (только админ)
func (h *Handler) handleAdminDelReview(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireAdmin(ctx, b, callback)
	if !ok {
		return
	}

	reviewID, err := parseID(callback.Data, cbdata.AdminDelReview)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	if err := h.reviews.Delete(ctx, reviewID); err != nil {
		h.logger.Error("Failed to delete review", zap.Int64("review_id", reviewID), zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	h.answer(ctx, b, callback.ID, "🗑 Отзыв удалён")
	h.showReviews(ctx, b, h.chatID(callback), user)
}
