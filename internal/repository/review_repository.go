package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manictest/salon_bot/internal/model"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create создаёт новый отзыв
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (client_id, client_name, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, review.ClientID, review.ClientName, review.Text).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// List получает последние отзывы
func (r *ReviewRepository) List(ctx context.Context, limit int) ([]*model.Review, error) {
	query := `
		SELECT id, client_id, client_name, text, created_at
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		err := rows.Scan(&review.ID, &review.ClientID, &review.ClientName, &review.Text, &review.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

// Delete удаляет отзыв
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reviews WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
