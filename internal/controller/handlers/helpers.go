package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
)

// send отправляет простое текстовое сообщение
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendKb отправляет сообщение с inline клавиатурой
func (h *Handlers) sendKb(ctx context.Context, b *bot.Bot, chatID int64, text string, kb models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// user получает пользователя по сообщению, регистрируя его при необходимости
func (h *Handlers) user(ctx context.Context, update *models.Update) (*model.User, error) {
	from := update.Message.From
	return h.masters.RegisterUser(ctx, from.ID, from.Username)
}

// requireAdmin проверяет роль администратора
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, err := h.user(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		return nil, false
	}
	if !user.IsAdmin {
		h.send(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только администратору")
		return nil, false
	}
	return user, true
}

// requireMaster проверяет роль мастера (или администратора)
func (h *Handlers) requireMaster(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, err := h.user(ctx, update)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		return nil, false
	}
	if !user.IsStaff() {
		h.send(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только персоналу салона")
		return nil, false
	}
	return user, true
}
