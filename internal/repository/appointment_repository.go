package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/repository/base"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `id, master_id, client_chat_id, client_name, client_username, phone,
		to_char(date, 'YYYY-MM-DD'), time, status, reminded_24h, reminded_2h, created_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.MasterID,
		&a.ClientChatID,
		&a.ClientName,
		&a.ClientUsername,
		&a.Phone,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.Reminded24h,
		&a.Reminded2h,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Reserve атомарно создаёт запись и закрывает слот переопределением.
// Конкурентные попытки на один слот сериализуются частичным уникальным
// индексом appointments_active_slot_idx: проигравший получает ErrSlotTaken.
func (r *AppointmentRepository) Reserve(ctx context.Context, appt *model.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO appointments (master_id, client_chat_id, client_name, client_username, phone, date, time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = tx.QueryRow(
		ctx, insertQuery,
		appt.MasterID,
		appt.ClientChatID,
		appt.ClientName,
		appt.ClientUsername,
		appt.Phone,
		appt.Date,
		appt.Time,
		appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	slot := &model.AvailabilitySlot{
		MasterID:    appt.MasterID,
		Date:        appt.Date,
		Time:        appt.Time,
		IsAvailable: false,
	}
	if err := upsertOverride(ctx, tx, slot); err != nil {
		return fmt.Errorf("block slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reserve tx: %w", err)
	}

	return nil
}

// Release атомарно отменяет запись и освобождает слот
func (r *AppointmentRepository) Release(ctx context.Context, appt *model.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`

	tag, err := tx.Exec(ctx, updateQuery, appt.ID)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	deleteQuery := `DELETE FROM availability_slots WHERE master_id = $1 AND date = $2 AND time = $3`
	if _, err := tx.Exec(ctx, deleteQuery, appt.MasterID, appt.Date, appt.Time); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit release tx: %w", err)
	}

	appt.Status = model.AppointmentStatusCancelled
	return nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// UpdateStatus обновляет статус записи
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	return appts, rows.Err()
}

// ListByClient получает записи клиента, новые первыми
func (r *AppointmentRepository) ListByClient(ctx context.Context, clientChatID int64) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE client_chat_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, clientChatID)
}

// ListActiveByMaster получает активные записи мастера начиная с даты
func (r *AppointmentRepository) ListActiveByMaster(ctx context.Context, masterID int64, fromDate string) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE master_id = $1 AND date >= $2 AND status IN ('pending', 'confirmed')
		ORDER BY date, time`

	return r.list(ctx, query, masterID, fromDate)
}

// ListPendingByMaster получает записи мастера, ожидающие подтверждения
func (r *AppointmentRepository) ListPendingByMaster(ctx context.Context, masterID int64) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE master_id = $1 AND status = 'pending'
		ORDER BY date, time`

	return r.list(ctx, query, masterID)
}

// ListAll получает все записи, новые первыми
func (r *AppointmentRepository) ListAll(ctx context.Context, limit int) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1`

	return r.list(ctx, query, limit)
}

// ListConfirmed получает подтверждённые записи для прохода напоминаний
func (r *AppointmentRepository) ListConfirmed(ctx context.Context) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = 'confirmed' AND (reminded_24h = FALSE OR reminded_2h = FALSE)
		ORDER BY date, time`

	return r.list(ctx, query)
}

// MarkPast переводит просроченные активные записи в past.
// Слоты не освобождаются: визит уже состоялся.
// date и tm — текущие дата и время в зоне салона.
func (r *AppointmentRepository) MarkPast(ctx context.Context, date, tm string) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'past'
		WHERE status IN ('pending', 'confirmed')
		  AND (date < $1 OR (date = $1 AND time < $2))
	`

	tag, err := r.pool.Exec(ctx, query, date, tm)
	if err != nil {
		return 0, fmt.Errorf("mark past appointments: %w", err)
	}

	return tag.RowsAffected(), nil
}

// MarkReminded отмечает отправленное напоминание (hours: 24 или 2)
func (r *AppointmentRepository) MarkReminded(ctx context.Context, id int64, hours int) error {
	column := "reminded_24h"
	if hours == 2 {
		column = "reminded_2h"
	}

	query := fmt.Sprintf(`UPDATE appointments SET %s = TRUE WHERE id = $1`, column)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
