package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/keyboard"
	"github.com/manictest/salon_bot/internal/controller/state"
	"github.com/manictest/salon_bot/internal/service"
)

// HandleTextMessage маршрутизирует текст по текущему шагу диалога.
// Невалидный ввод не двигает состояние: шаг переспрашивает.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID

	switch h.stateManager.GetState(telegramID) {
	case state.StateBookingName:
		h.handleBookingNameStep(ctx, b, update)
	case state.StateBookingPhone:
		h.handleBookingPhoneStep(ctx, b, update)
	case state.StateReviewText:
		h.handleReviewTextStep(ctx, b, update)
	case state.StateAdminAddMasterID:
		h.handleAdminAddMasterIDStep(ctx, b, update)
	case state.StateAdminAddMasterName:
		h.handleAdminAddMasterNameStep(ctx, b, update)
	case state.StateAdminAddMasterPhone:
		h.handleAdminAddMasterPhoneStep(ctx, b, update)
	case state.StateAdminInfoText:
		h.handleAdminInfoTextStep(ctx, b, update)
	case state.StateMasterEditName:
		h.handleMasterEditNameStep(ctx, b, update)
	case state.StateMasterEditPhone:
		h.handleMasterEditPhoneStep(ctx, b, update)
	}
}

// handleBookingNameStep — шаг имени клиента
func (h *Handlers) handleBookingNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	name, err := service.ValidateName(update.Message.Text)
	if err != nil {
		h.send(ctx, b, chatID, "❌ Имя не может быть пустым. Как вас зовут?")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.Booking.Name = name
		s.State = state.StateBookingPhone
	})

	h.send(ctx, b, chatID,
		"Укажите телефон в международном формате, например +79991234567:")
}

// handleBookingPhoneStep — шаг телефона; после него выбор мастера
func (h *Handlers) handleBookingPhoneStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	phone, err := service.ValidatePhone(update.Message.Text)
	if err != nil {
		h.send(ctx, b, chatID,
			"❌ Телефон должен начинаться с + и содержать 10-15 цифр, например +79991234567. Попробуйте ещё раз:")
		return
	}

	masters, err := h.masters.ListMasters(ctx)
	if err != nil {
		h.logger.Error("Failed to list masters", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось получить список мастеров, попробуйте позже")
		return
	}
	if len(masters) == 0 {
		h.stateManager.Clear(telegramID)
		h.send(ctx, b, chatID, "К сожалению, сейчас нет доступных мастеров. Загляните позже!")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.Booking.Phone = phone
		s.State = state.StateBookingMaster
	})

	h.sendKb(ctx, b, chatID, "Выберите мастера:", keyboard.Masters(masters))
}

// handleReviewTextStep — текст отзыва
func (h *Handlers) handleReviewTextStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	name := strings.TrimSpace(update.Message.From.FirstName + " " + update.Message.From.LastName)

	_, err := h.reviews.Add(ctx, telegramID, name, update.Message.Text)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.send(ctx, b, chatID, "❌ Отзыв не может быть пустым. Напишите пару слов:")
			return
		}
		h.logger.Error("Failed to add review", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось сохранить отзыв, попробуйте позже")
		return
	}

	h.stateManager.Clear(telegramID)
	h.send(ctx, b, chatID, "Спасибо за отзыв! ⭐")
}

// handleAdminAddMasterIDStep — telegram id нового мастера
func (h *Handlers) handleAdminAddMasterIDStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	masterID, err := strconv.ParseInt(strings.TrimSpace(update.Message.Text), 10, 64)
	if err != nil || masterID <= 0 {
		h.send(ctx, b, chatID, "❌ Введите числовой telegram id мастера:")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.NewMaster.TelegramID = masterID
		s.State = state.StateAdminAddMasterName
	})

	h.send(ctx, b, chatID, "Введите имя мастера:")
}

// handleAdminAddMasterNameStep — имя нового мастера
func (h *Handlers) handleAdminAddMasterNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	name, err := service.ValidateName(update.Message.Text)
	if err != nil {
		h.send(ctx, b, chatID, "❌ Имя не может быть пустым. Введите имя мастера:")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.NewMaster.Name = name
		s.State = state.StateAdminAddMasterPhone
	})

	h.send(ctx, b, chatID, "Введите телефон мастера или «-», чтобы пропустить:")
}

// handleAdminAddMasterPhoneStep — телефон нового мастера и создание
func (h *Handlers) handleAdminAddMasterPhoneStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	phone := strings.TrimSpace(update.Message.Text)
	if phone == "-" {
		phone = ""
	} else if phone != "" {
		validated, err := service.ValidatePhone(phone)
		if err != nil {
			h.send(ctx, b, chatID, "❌ Телефон в формате +79991234567 или «-», чтобы пропустить:")
			return
		}
		phone = validated
	}

	draft := h.stateManager.Get(telegramID).NewMaster

	if err := h.masters.GrantMaster(ctx, draft.TelegramID, draft.Name, phone); err != nil {
		h.logger.Error("Failed to grant master", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось добавить мастера, попробуйте позже")
		return
	}

	h.stateManager.Clear(telegramID)
	h.send(ctx, b, chatID, "✅ Мастер добавлен. Будни открыты по умолчанию, расписание он настроит в панели мастера.")
}

// handleAdminInfoTextStep — новый информационный текст
func (h *Handlers) handleAdminInfoTextStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.settings.SetInfoText(ctx, strings.TrimSpace(update.Message.Text)); err != nil {
		h.logger.Error("Failed to set info text", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось сохранить текст, попробуйте позже")
		return
	}

	h.stateManager.Clear(telegramID)
	h.send(ctx, b, chatID, "✅ Инфо-текст обновлён")
}

// handleMasterEditNameStep — мастер меняет своё имя
func (h *Handlers) handleMasterEditNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	name, err := service.ValidateName(update.Message.Text)
	if err != nil {
		h.send(ctx, b, chatID, "❌ Имя не может быть пустым. Введите имя:")
		return
	}

	user, err := h.masters.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.send(ctx, b, chatID, "❌ Профиль не найден, нажмите /start")
		return
	}

	if err := h.masters.UpdateProfile(ctx, telegramID, name, user.Phone); err != nil {
		h.logger.Error("Failed to update master name", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось обновить имя")
		return
	}

	h.stateManager.Clear(telegramID)
	h.send(ctx, b, chatID, "✅ Имя обновлено")
}

// handleMasterEditPhoneStep — мастер меняет свой телефон
func (h *Handlers) handleMasterEditPhoneStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	phone, err := service.ValidatePhone(update.Message.Text)
	if err != nil {
		h.send(ctx, b, chatID, "❌ Телефон в формате +79991234567. Попробуйте ещё раз:")
		return
	}

	user, err := h.masters.GetByTelegramID(ctx, telegramID)
	if err != nil || user == nil {
		h.send(ctx, b, chatID, "❌ Профиль не найден, нажмите /start")
		return
	}

	if err := h.masters.UpdateProfile(ctx, telegramID, user.Name, phone); err != nil {
		h.logger.Error("Failed to update master phone", zap.Error(err))
		h.send(ctx, b, chatID, "❌ Не удалось обновить телефон")
		return
	}

	h.stateManager.Clear(telegramID)
	h.send(ctx, b, chatID, "✅ Телефон обновлён")
}
