package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/repository/base"
)

// AvailabilityRepository хранит явные переопределения доступности слотов
type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// Upsert создаёт или обновляет переопределение. Идемпотентен.
func (r *AvailabilityRepository) Upsert(ctx context.Context, slot *model.AvailabilitySlot) error {
	return upsertOverride(ctx, r.pool, slot)
}

// upsertOverride — общий код апсерта, выполняется на пуле или в транзакции
func upsertOverride(ctx context.Context, q base.Querier, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (master_id, date, time, is_available)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (master_id, date, time) DO UPDATE SET is_available = EXCLUDED.is_available
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, slot.MasterID, slot.Date, slot.Time, slot.IsAvailable).
		Scan(&slot.ID, &slot.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert availability slot: %w", err)
	}

	return nil
}

// Delete удаляет переопределение, возвращая слот к состоянию по умолчанию
func (r *AvailabilityRepository) Delete(ctx context.Context, masterID int64, date, tm string) error {
	query := `DELETE FROM availability_slots WHERE master_id = $1 AND date = $2 AND time = $3`

	if _, err := r.pool.Exec(ctx, query, masterID, date, tm); err != nil {
		return fmt.Errorf("delete availability slot: %w", err)
	}

	return nil
}

// Get получает переопределение слота, nil если его нет
func (r *AvailabilityRepository) Get(ctx context.Context, masterID int64, date, tm string) (*model.AvailabilitySlot, error) {
	query := `
		SELECT id, master_id, to_char(date, 'YYYY-MM-DD'), time, is_available, created_at
		FROM availability_slots
		WHERE master_id = $1 AND date = $2 AND time = $3
	`

	var slot model.AvailabilitySlot
	err := r.pool.QueryRow(ctx, query, masterID, date, tm).Scan(
		&slot.ID,
		&slot.MasterID,
		&slot.Date,
		&slot.Time,
		&slot.IsAvailable,
		&slot.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability slot: %w", err)
	}

	return &slot, nil
}

// ListByMasterDate получает все переопределения мастера на дату
func (r *AvailabilityRepository) ListByMasterDate(ctx context.Context, masterID int64, date string) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, master_id, to_char(date, 'YYYY-MM-DD'), time, is_available, created_at
		FROM availability_slots
		WHERE master_id = $1 AND date = $2
		ORDER BY time
	`

	rows, err := r.pool.Query(ctx, query, masterID, date)
	if err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		var slot model.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.MasterID,
			&slot.Date,
			&slot.Time,
			&slot.IsAvailable,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}
