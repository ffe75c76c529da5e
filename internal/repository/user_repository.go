package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/repository/base"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, telegram_id, username, name, phone, is_master, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.TelegramID,
		&u.Username,
		&u.Name,
		&u.Phone,
		&u.IsMaster,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert создаёт пользователя или обновляет его username.
// Роли и профиль при апсерте не трогаются — ими владеет админ-панель.
func (r *UserRepository) Upsert(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	query := `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET username = EXCLUDED.username
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, username))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return user, nil
}

// GetByTelegramID получает пользователя по telegram id
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return user, nil
}

// ListMasters получает всех активных мастеров по алфавиту
func (r *UserRepository) ListMasters(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_master = TRUE ORDER BY name, telegram_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list masters: %w", err)
	}
	defer rows.Close()

	var masters []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan master: %w", err)
		}
		masters = append(masters, user)
	}

	return masters, rows.Err()
}

// SetMasterRole включает или выключает роль мастера.
// Выключение — это мягкое удаление: строка и история записей остаются.
func (r *UserRepository) SetMasterRole(ctx context.Context, telegramID int64, isMaster bool) error {
	query := `
		INSERT INTO users (telegram_id, is_master)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET is_master = EXCLUDED.is_master
	`

	if _, err := r.pool.Exec(ctx, query, telegramID, isMaster); err != nil {
		return fmt.Errorf("set master role: %w", err)
	}

	return nil
}

// SetAdminRole включает или выключает роль администратора
func (r *UserRepository) SetAdminRole(ctx context.Context, telegramID int64, isAdmin bool) error {
	query := `
		INSERT INTO users (telegram_id, is_admin)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET is_admin = EXCLUDED.is_admin
	`

	if _, err := r.pool.Exec(ctx, query, telegramID, isAdmin); err != nil {
		return fmt.Errorf("set admin role: %w", err)
	}

	return nil
}

// UpdateProfile обновляет имя и телефон
func (r *UserRepository) UpdateProfile(ctx context.Context, telegramID int64, name, phone string) error {
	query := `UPDATE users SET name = $1, phone = $2 WHERE telegram_id = $3`

	tag, err := r.pool.Exec(ctx, query, name, phone, telegramID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAdmins получает всех администраторов
func (r *UserRepository) ListAdmins(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_admin = TRUE ORDER BY telegram_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, user)
	}

	return admins, rows.Err()
}
