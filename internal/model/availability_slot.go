package model

import "time"

// AvailabilitySlot — явное переопределение доступности слота.
// Отсутствие записи означает "слот открыт" (если день недели рабочий).
// Запись с IsAvailable=false закрывает слот: либо мастер закрыл его вручную,
// либо слот занят активной записью.
type AvailabilitySlot struct {
	ID          int64     `json:"id"`
	MasterID    int64     `json:"master_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}
