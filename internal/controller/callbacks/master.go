package callbacks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/controller/common"
	"github.com/manictest/salon_bot/internal/controller/keyboard"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/service"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// handleMasterPanel показывает панель мастера
func (h *Handler) handleMasterPanel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireMaster(ctx, b, callback); !ok {
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback), "🗓 Панель мастера", keyboard.MasterPanel())
}

// handleMasterBookings — предстоящие активные записи мастера
func (h *Handler) handleMasterBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}
	chatID := h.chatID(callback)

	appts, err := h.appointments.ListActiveByMaster(ctx, user.TelegramID, h.now())
	if err != nil {
		h.logger.Error("Failed to list master appointments", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")

	if len(appts) == 0 {
		h.send(ctx, b, chatID, "Предстоящих записей нет")
		return
	}

	h.send(ctx, b, chatID, "📅 Ваши записи:")
	for _, a := range appts {
		h.sendKb(ctx, b, chatID, common.AppointmentLine(a),
			keyboard.ApptManage(a.ID, a.Status == model.AppointmentStatusPending))
	}
}

// handleMasterPending — записи мастера, ожидающие подтверждения
func (h *Handler) handleMasterPending(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}
	chatID := h.chatID(callback)

	appts, err := h.appointments.ListPendingByMaster(ctx, user.TelegramID)
	if err != nil {
		h.logger.Error("Failed to list pending appointments", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")

	if len(appts) == 0 {
		h.send(ctx, b, chatID, "Неподтверждённых записей нет 🎉")
		return
	}

	h.send(ctx, b, chatID, "🕐 Ожидают подтверждения:")
	for _, a := range appts {
		h.sendKb(ctx, b, chatID, common.AppointmentLine(a), keyboard.ApptManage(a.ID, true))
	}
}

// handleMasterSchedule — переключатели рабочих дней недели
func (h *Handler) handleMasterSchedule(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	rules, err := h.calendar.WeekdayRules(ctx, user.TelegramID)
	if err != nil {
		h.logger.Error("Failed to list weekday rules", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback),
		"🗓 Рабочие дни недели. Нажмите, чтобы переключить:",
		keyboard.WeekdayToggles(rules))
}

// handleToggleWeekday переключает рабочий день и обновляет клавиатуру
func (h *Handler) handleToggleWeekday(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	weekday, err := parseID(callback.Data, cbdata.ToggleWeekday)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	rules, err := h.calendar.WeekdayRules(ctx, user.TelegramID)
	if err != nil {
		h.logger.Error("Failed to list weekday rules", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	enabled := false
	for _, r := range rules {
		if r.Weekday == int(weekday) {
			enabled = r.Enabled
			break
		}
	}

	if err := h.calendar.SetWeekdayEnabled(ctx, user.TelegramID, int(weekday), !enabled); err != nil {
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	rules, err = h.calendar.WeekdayRules(ctx, user.TelegramID)
	if err != nil {
		h.logger.Error("Failed to reload weekday rules", zap.Error(err))
		h.answer(ctx, b, callback.ID, "✅")
		return
	}

	h.answer(ctx, b, callback.ID, "✅")
	h.editKb(ctx, b, callback, keyboard.WeekdayToggles(rules))
}

// handleMasterDays — выбор даты для ручного управления слотами
func (h *Handler) handleMasterDays(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	if _, ok := h.requireMaster(ctx, b, callback); !ok {
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback),
		"🔧 Выберите дату:",
		keyboard.MasterDays(timeslot.Dates(h.now(), h.windowDays)))
}

// handleMasterDay — слоты на выбранную дату
func (h *Handler) handleMasterDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	date := strings.TrimPrefix(callback.Data, cbdata.MasterDay)

	closed, err := h.closedSlots(ctx, user.TelegramID, date)
	if err != nil {
		h.logger.Error("Failed to list day overrides", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.sendKb(ctx, b, h.chatID(callback),
		fmt.Sprintf("Слоты на %s. Нажмите, чтобы открыть или закрыть:", timeslot.FormatDate(date)),
		keyboard.DaySlots(date, closed))
}

// handleToggleSlot открывает или закрывает слот и обновляет клавиатуру.
// Формат: toggle_slot:<дата>:<время>, дата двоеточий не содержит.
func (h *Handler) handleToggleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(callback.Data, cbdata.ToggleSlot)
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}
	date, tm := parts[0], parts[1]

	closed, err := h.closedSlots(ctx, user.TelegramID, date)
	if err != nil {
		h.logger.Error("Failed to list day overrides", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
		return
	}

	if err := h.calendar.SetSlotAvailability(ctx, user.TelegramID, date, tm, closed[tm]); err != nil {
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}
	closed[tm] = !closed[tm]

	h.answer(ctx, b, callback.ID, "✅")
	h.editKb(ctx, b, callback, keyboard.DaySlots(date, closed))
}

// handleMasterWeekImage присылает картинку доступности на неделю
func (h *Handler) handleMasterWeekImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	now := h.now()
	dates := timeslot.Dates(now, 7)

	offerable := make(map[string]map[string]bool, len(dates))
	for _, date := range dates {
		times, err := h.calendar.OfferableTimes(ctx, user.TelegramID, date, now)
		if err != nil {
			h.logger.Error("Failed to list offerable times", zap.Error(err))
			h.answerAlert(ctx, b, callback.ID, "❌ Ошибка, попробуйте позже")
			return
		}
		m := make(map[string]bool, len(times))
		for _, tm := range times {
			m[tm] = true
		}
		offerable[date] = m
	}

	img, err := common.RenderWeekImage(dates, func(date, tm string) bool {
		return offerable[date][tm]
	})
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.answerAlert(ctx, b, callback.ID, "❌ Не удалось построить картинку")
		return
	}

	h.answer(ctx, b, callback.ID, "")

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  h.chatID(callback),
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(img)},
		Caption: "🖼 Ваша неделя: зелёное — можно записаться",
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Error(err))
	}
}

// handleApptConfirm — мастер или админ подтверждает запись
func (h *Handler) handleApptConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	apptID, err := parseID(callback.Data, cbdata.ApptConfirm)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	appt, err := h.appointments.Transition(ctx, apptID, model.AppointmentStatusConfirmed, service.ActorFrom(user))
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	h.answer(ctx, b, callback.ID, "✅ Подтверждено")
	h.send(ctx, b, h.chatID(callback),
		fmt.Sprintf("✅ Запись #%d подтверждена, клиент получил уведомление", appt.ID))
}

// handleApptCancel — мастер или админ отменяет запись
func (h *Handler) handleApptCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	user, ok := h.requireMaster(ctx, b, callback)
	if !ok {
		return
	}

	apptID, err := parseID(callback.Data, cbdata.ApptCancel)
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	appt, err := h.appointments.Transition(ctx, apptID, model.AppointmentStatusCancelled, service.ActorFrom(user))
	if err != nil {
		h.answerAlert(ctx, b, callback.ID, errorText(err))
		return
	}

	h.answer(ctx, b, callback.ID, "")
	h.send(ctx, b, h.chatID(callback),
		fmt.Sprintf("❌ Запись #%d отменена, слот снова открыт", appt.ID))
}

// closedSlots возвращает закрытые переопределениями времена даты
func (h *Handler) closedSlots(ctx context.Context, masterID int64, date string) (map[string]bool, error) {
	overrides, err := h.calendar.DayOverrides(ctx, masterID, date)
	if err != nil {
		return nil, err
	}

	closed := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		if !o.IsAvailable {
			closed[o.Time] = true
		}
	}
	return closed, nil
}

// editKb обновляет клавиатуру исходного сообщения
func (h *Handler) editKb(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, kb models.ReplyMarkup) {
	if callback.Message.Message == nil {
		return
	}

	_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      callback.Message.Message.Chat.ID,
		MessageID:   callback.Message.Message.ID,
		ReplyMarkup: kb,
	})
	if err != nil {
		h.logger.Error("Failed to edit keyboard", zap.Error(err))
	}
}
