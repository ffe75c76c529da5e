package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "sent"
	NotificationStatusFailed NotificationStatus = "failed"
)

// NotificationRecord — журнал отправленных уведомлений (best-effort outbox).
// Используется для аудита, повторная доставка по нему не выполняется.
type NotificationRecord struct {
	ID          uuid.UUID          `json:"id"`
	RecipientID int64              `json:"recipient_id"`
	Kind        string             `json:"kind"`
	Payload     string             `json:"payload"`
	Status      NotificationStatus `json:"status"`
	Error       string             `json:"error"`
	CreatedAt   time.Time          `json:"created_at"`
}
