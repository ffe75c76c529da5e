package callbacks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/controller/keyboard"
	"github.com/manictest/salon_bot/internal/controller/state"
	"github.com/manictest/salon_bot/internal/service"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// handleStartBooking запускает диалог бронирования с кнопки меню
func (h *Handler) handleStartBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	telegramID := callback.From.ID

	h.stateManager.Clear(telegramID)
	h.stateManager.SetState(telegramID, state.StateBookingName)

	h.answer(ctx, b, callback.ID, "")
	h.send(ctx, b, h.chatID(callback),
		"💅 Запись к мастеру\n\nКак вас зовут?\n\nДля отмены используйте /cancel")
}

// handleSelectMaster — выбран мастер, показываем даты
func (h *Handler) handleSelectMaster(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	telegramID := callback.From.ID

	if h.stateManager.GetState(telegramID) != state.StateBookingMaster {
		h.answerAlert(ctx, b, callback.ID, "Диалог устарел, начните заново: /book")
		return
	}

	masterID, err := parseID(callback.Data, cbdata.SelectMaster)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	master, err := h.masters.GetByTelegramID(ctx, masterID)
	if err != nil {
		h.logger.Error("Failed to get master", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}
	if master == nil || !master.IsMaster {
		h.answerAlert(ctx, b, callback.ID, "❌ Этот мастер больше не принимает записи")
		return
	}

	dates, err := h.calendar.OfferableDates(ctx, masterID, h.now(), h.windowDays)
	if err != nil {
		h.logger.Error("Failed to list offerable dates", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(dates) == 0 {
		h.answerAlert(ctx, b, callback.ID, "У этого мастера нет свободных слотов, выберите другого")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.Booking.MasterID = masterID
		s.State = state.StateBookingDate
	})

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback),
		fmt.Sprintf("Мастер: %s\n\nВыберите дату:", master.DisplayName()),
		keyboard.Dates(dates))
}

// handleSelectDate — выбрана дата, показываем времена
func (h *Handler) handleSelectDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	telegramID := callback.From.ID

	if h.stateManager.GetState(telegramID) != state.StateBookingDate {
		h.answerAlert(ctx, b, callback.ID, "Диалог устарел, начните заново: /book")
		return
	}

	date := strings.TrimPrefix(callback.Data, cbdata.SelectDate)
	session := h.stateManager.Get(telegramID)

	times, err := h.calendar.OfferableTimes(ctx, session.Booking.MasterID, date, h.now())
	if err != nil {
		h.logger.Error("Failed to list offerable times", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(times) == 0 {
		// Пока клиент думал, дату разобрали; обновляем список дат
		h.refreshDates(ctx, b, callback, session.Booking.MasterID,
			"На эту дату уже нет свободного времени. Выберите другую:")
		return
	}

	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.Booking.Date = date
		s.State = state.StateBookingTime
	})

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback),
		fmt.Sprintf("Дата: %s\n\nВыберите время:", timeslot.FormatDate(date)),
		keyboard.Times(times))
}

// handleSelectTime — финальный шаг: резервируем слот
func (h *Handler) handleSelectTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	telegramID := callback.From.ID

	if h.stateManager.GetState(telegramID) != state.StateBookingTime {
		h.answerAlert(ctx, b, callback.ID, "Диалог устарел, начните заново: /book")
		return
	}

	tm := strings.TrimPrefix(callback.Data, cbdata.SelectTime)
	session := h.stateManager.Get(telegramID)
	draft := session.Booking

	appt, err := h.appointments.Create(ctx,
		draft.MasterID, draft.Date, tm,
		telegramID, draft.Name, callback.From.Username, draft.Phone)
	if err != nil {
		if errors.Is(err, service.ErrSlotUnavailable) {
			// Проиграли гонку; показываем оставшиеся времена той же даты
			h.answerAlert(ctx, b, callback.ID, errorText(err))
			h.refreshTimes(ctx, b, callback, draft.MasterID, draft.Date)
			return
		}
		h.logger.Error("Failed to create appointment", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	h.stateManager.Clear(telegramID)

	h.answer(ctx, b, callback.ID, "✅")
	h.send(ctx, b, h.chatID(callback), fmt.Sprintf(
		"✅ Заявка #%d создана!\n\n📅 %s в %s\n\nМастер подтвердит запись, мы пришлём уведомление.",
		appt.ID, timeslot.FormatDate(appt.Date), appt.Time))
}

// refreshDates перерисовывает выбор даты, откатывая диалог на шаг назад
func (h *Handler) refreshDates(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, masterID int64, text string) {
	dates, err := h.calendar.OfferableDates(ctx, masterID, h.now(), h.windowDays)
	if err != nil {
		h.logger.Error("Failed to list offerable dates", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(dates) == 0 {
		h.stateManager.Clear(callback.From.ID)
		h.answer(ctx, b, callback.ID, "")
		h.send(ctx, b, h.chatID(callback), "У мастера не осталось свободных слотов. Попробуйте позже или выберите другого: /book")
		return
	}

	h.stateManager.Update(callback.From.ID, func(s *state.Session) {
		s.State = state.StateBookingDate
	})

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback), text, keyboard.Dates(dates))
}

// refreshTimes перерисовывает выбор времени на ту же дату
func (h *Handler) refreshTimes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, masterID int64, date string) {
	times, err := h.calendar.OfferableTimes(ctx, masterID, date, h.now())
	if err != nil {
		h.logger.Error("Failed to list offerable times", zap.Error(err))
		return
	}
	if len(times) == 0 {
		h.refreshDates(ctx, b, callback, masterID,
			"На эту дату уже нет свободного времени. Выберите другую:")
		return
	}

	h.sendKb(ctx, b, h.chatID(callback),
		fmt.Sprintf("Дата: %s\n\nВыберите другое время:", timeslot.FormatDate(date)),
		keyboard.Times(times))
}
