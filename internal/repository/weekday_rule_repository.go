package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manictest/salon_bot/internal/model"
)

type WeekdayRuleRepository struct {
	pool *pgxpool.Pool
}

func NewWeekdayRuleRepository(pool *pgxpool.Pool) *WeekdayRuleRepository {
	return &WeekdayRuleRepository{pool: pool}
}

// Upsert создаёт или обновляет правило дня недели. Идемпотентен.
func (r *WeekdayRuleRepository) Upsert(ctx context.Context, rule *model.WeekdayRule) error {
	query := `
		INSERT INTO weekday_rules (master_id, weekday, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (master_id, weekday) DO UPDATE SET enabled = EXCLUDED.enabled
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, rule.MasterID, rule.Weekday, rule.Enabled).Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("upsert weekday rule: %w", err)
	}

	return nil
}

// ListByMaster получает все правила мастера
func (r *WeekdayRuleRepository) ListByMaster(ctx context.Context, masterID int64) ([]*model.WeekdayRule, error) {
	query := `
		SELECT id, master_id, weekday, enabled
		FROM weekday_rules
		WHERE master_id = $1
		ORDER BY weekday
	`

	rows, err := r.pool.Query(ctx, query, masterID)
	if err != nil {
		return nil, fmt.Errorf("list weekday rules: %w", err)
	}
	defer rows.Close()

	var rules []*model.WeekdayRule
	for rows.Next() {
		var rule model.WeekdayRule
		err := rows.Scan(&rule.ID, &rule.MasterID, &rule.Weekday, &rule.Enabled)
		if err != nil {
			return nil, fmt.Errorf("scan weekday rule: %w", err)
		}
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}

// SeedDefaults создаёт стартовые правила для нового мастера:
// будни рабочие, выходные нет. Существующие правила не перезаписывает.
func (r *WeekdayRuleRepository) SeedDefaults(ctx context.Context, masterID int64) error {
	query := `
		INSERT INTO weekday_rules (master_id, weekday, enabled)
		SELECT $1, d, d < 5 FROM generate_series(0, 6) AS d
		ON CONFLICT (master_id, weekday) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, masterID); err != nil {
		return fmt.Errorf("seed weekday rules: %w", err)
	}

	return nil
}
