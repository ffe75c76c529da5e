// Package notify доставляет семантические события планировщика получателям.
// Ядро не форматирует текст сообщений — рендеринг живёт в диспетчере.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/manictest/salon_bot/internal/model"
)

type Kind string

const (
	KindAppointmentCreated   Kind = "appointment_created"   // мастеру и админам
	KindAppointmentConfirmed Kind = "appointment_confirmed" // клиенту
	KindAppointmentCancelled Kind = "appointment_cancelled" // клиенту или мастеру
	KindReminderDue          Kind = "reminder_due"          // клиенту
)

// Event — семантическое событие с данными для рендеринга сообщения
type Event struct {
	ID          uuid.UUID
	RecipientID int64
	Kind        Kind
	Appointment *model.Appointment
	Hours       int // для KindReminderDue: 24 или 2
}

// NewEvent создаёт событие с новым идентификатором
func NewEvent(recipientID int64, kind Kind, appt *model.Appointment) Event {
	return Event{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Kind:        kind,
		Appointment: appt,
	}
}

// Dispatcher отправляет событие получателю
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}
