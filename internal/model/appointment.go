package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения мастера
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждена
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменена
	AppointmentStatusPast      AppointmentStatus = "past"      // Время визита прошло
)

// Appointment — запись клиента к мастеру.
// Инвариант: на пару (master_id, date, time) существует не более одной
// записи в статусе pending или confirmed.
type Appointment struct {
	ID             int64             `json:"id"`
	MasterID       int64             `json:"master_id"`
	ClientChatID   int64             `json:"client_chat_id"`
	ClientName     string            `json:"client_name"`
	ClientUsername string            `json:"client_username"`
	Phone          string            `json:"phone"`
	Date           string            `json:"date"` // YYYY-MM-DD
	Time           string            `json:"time"` // HH:MM
	Status         AppointmentStatus `json:"status"`
	Reminded24h    bool              `json:"reminded_24h"`
	Reminded2h     bool              `json:"reminded_2h"`
	CreatedAt      time.Time         `json:"created_at"`
}

// IsActive проверяет, удерживает ли запись слот
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// VisitAt возвращает момент визита в заданной тайм-зоне
func (a *Appointment) VisitAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}
