package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manictest/salon_bot/internal/model"
)

// OutboxRepository — журнал попыток отправки уведомлений
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Insert записывает результат попытки отправки
func (r *OutboxRepository) Insert(ctx context.Context, rec *model.NotificationRecord) error {
	query := `
		INSERT INTO notification_outbox (id, recipient_id, kind, payload, status, error)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		rec.ID,
		rec.RecipientID,
		rec.Kind,
		rec.Payload,
		rec.Status,
		rec.Error,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification record: %w", err)
	}

	return nil
}
