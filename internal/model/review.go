package model

import "time"

// Review — отзыв клиента. С расписанием не связан.
type Review struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"client_id"`
	ClientName string    `json:"client_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
