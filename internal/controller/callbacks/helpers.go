package callbacks

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/service"
)

// answer подтверждает callback query коротким тостом
func (h *Handler) answer(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback", zap.Error(err))
	}
}

// answerAlert подтверждает callback query модальным предупреждением
func (h *Handler) answerAlert(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback", zap.Error(err))
	}
}

// chatID достаёт чат исходного сообщения; для недоступных сообщений
// отвечаем в личку пользователю
func (h *Handler) chatID(callback *models.CallbackQuery) int64 {
	if callback.Message.Message != nil {
		return callback.Message.Message.Chat.ID
	}
	return callback.From.ID
}

func (h *Handler) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handler) sendKb(ctx context.Context, b *bot.Bot, chatID int64, text string, kb models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// user регистрирует (или читает) пользователя, нажавшего кнопку
func (h *Handler) user(ctx context.Context, callback *models.CallbackQuery) (*model.User, error) {
	return h.masters.RegisterUser(ctx, callback.From.ID, callback.From.Username)
}

// requireMaster проверяет, что кнопку нажал мастер или админ
func (h *Handler) requireMaster(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) (*model.User, bool) {
	user, err := h.user(ctx, callback)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return nil, false
	}
	if !user.IsStaff() {
		h.answerAlert(ctx, b, callback.ID, "❌ Доступно только персоналу салона")
		return nil, false
	}
	return user, true
}

// requireAdmin проверяет, что кнопку нажал администратор
func (h *Handler) requireAdmin(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) (*model.User, bool) {
	user, err := h.user(ctx, callback)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return nil, false
	}
	if !user.IsAdmin {
		h.answerAlert(ctx, b, callback.ID, "❌ Доступно только администратору")
		return nil, false
	}
	return user, true
}

// parseID извлекает числовой суффикс callback data после префикса
func parseID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}

// errorText переводит ошибки сервисов в сообщения пользователю
func errorText(err error) string {
	switch {
	case errors.Is(err, service.ErrSlotUnavailable):
		return "❌ Увы, это время уже заняли. Выберите другой слот"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Действие недоступно для этой записи"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, service.ErrValidation):
		return "❌ Неверные данные, начните заново: /book"
	}
	return "❌ Что-то пошло не так, попробуйте позже"
}
