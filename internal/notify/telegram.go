package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/controller/cbdata"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// OutboxStore записывает результат попытки отправки
type OutboxStore interface {
	Insert(ctx context.Context, rec *model.NotificationRecord) error
}

// TelegramDispatcher рендерит события в сообщения и отправляет их через бота.
// Доставка best-effort: результат фиксируется в outbox, повторная доставка
// по журналу не выполняется.
type TelegramDispatcher struct {
	bot    *bot.Bot
	outbox OutboxStore
	logger *zap.Logger
}

func NewTelegramDispatcher(b *bot.Bot, outbox OutboxStore, logger *zap.Logger) *TelegramDispatcher {
	return &TelegramDispatcher{
		bot:    b,
		outbox: outbox,
		logger: logger,
	}
}

// Dispatch отправляет событие. Транзиентные ошибки Telegram ретраятся
// с коротким backoff внутри одной попытки доставки.
func (d *TelegramDispatcher) Dispatch(ctx context.Context, event Event) error {
	params := &bot.SendMessageParams{
		ChatID:      event.RecipientID,
		Text:        renderText(event),
		ReplyMarkup: renderKeyboard(event),
	}

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	sendErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, err := d.bot.SendMessage(ctx, params); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})

	d.record(ctx, event, sendErr)

	if sendErr != nil {
		d.logger.Warn("Notification dispatch failed",
			zap.String("event_id", event.ID.String()),
			zap.String("kind", string(event.Kind)),
			zap.Int64("recipient_id", event.RecipientID),
			zap.Error(sendErr))
		return fmt.Errorf("dispatch %s: %w", event.Kind, sendErr)
	}

	return nil
}

func (d *TelegramDispatcher) record(ctx context.Context, event Event, sendErr error) {
	rec := &model.NotificationRecord{
		ID:          event.ID,
		RecipientID: event.RecipientID,
		Kind:        string(event.Kind),
		Status:      model.NotificationStatusSent,
	}

	if event.Appointment != nil {
		payload, _ := json.Marshal(map[string]any{
			"appointment_id": event.Appointment.ID,
			"date":           event.Appointment.Date,
			"time":           event.Appointment.Time,
			"hours":          event.Hours,
		})
		rec.Payload = string(payload)
	}

	if sendErr != nil {
		rec.Status = model.NotificationStatusFailed
		rec.Error = sendErr.Error()
	}

	if err := d.outbox.Insert(ctx, rec); err != nil {
		d.logger.Error("Failed to record notification",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
	}
}

func renderText(event Event) string {
	appt := event.Appointment
	switch event.Kind {
	case KindAppointmentCreated:
		uname := ""
		if appt.ClientUsername != "" {
			uname = " (@" + appt.ClientUsername + ")"
		}
		return fmt.Sprintf("💅 Новая запись #%d: %s%s, %s — %s в %s",
			appt.ID, appt.ClientName, uname, appt.Phone,
			timeslot.FormatDate(appt.Date), appt.Time)

	case KindAppointmentConfirmed:
		return fmt.Sprintf("✅ Ваша запись на %s в %s подтверждена.\n\nЖдём вас!",
			timeslot.FormatDate(appt.Date), appt.Time)

	case KindAppointmentCancelled:
		return fmt.Sprintf("❌ Запись #%d на %s в %s отменена.",
			appt.ID, timeslot.FormatDate(appt.Date), appt.Time)

	case KindReminderDue:
		return fmt.Sprintf("⏰ Напоминание о записи\n\n📅 %s\n⏰ %s\n\nДо визита %d ч.",
			timeslot.FormatDate(appt.Date), appt.Time, event.Hours)
	}
	return ""
}

// renderKeyboard добавляет кнопки подтверждения к уведомлению о новой записи
func renderKeyboard(event Event) models.ReplyMarkup {
	if event.Kind != KindAppointmentCreated || event.Appointment == nil {
		return nil
	}

	id := fmt.Sprint(event.Appointment.ID)
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "✅ Подтвердить", CallbackData: cbdata.ApptConfirm + id},
			{Text: "❌ Отменить", CallbackData: cbdata.ApptCancel + id},
		}},
	}
}
