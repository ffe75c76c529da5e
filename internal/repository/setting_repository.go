package repository

import (
	"context"
	"fmt"

	"github.com/manictest/salon_bot/internal/repository/base"
)

// SettingRepository работает через base.Querier, чтобы в тестах
// подставлять мок пула вместо настоящего
type SettingRepository struct {
	pool base.Querier
}

func NewSettingRepository(pool base.Querier) *SettingRepository {
	return &SettingRepository{pool: pool}
}

// Get возвращает значение настройки, пустую строку если её нет
func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM settings WHERE key = $1`

	var value string
	err := r.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if base.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}

	return value, nil
}

// Upsert создаёт или обновляет настройку
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}
