package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
)

// ReviewStore хранит отзывы
type ReviewStore interface {
	Create(ctx context.Context, review *model.Review) error
	List(ctx context.Context, limit int) ([]*model.Review, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewService — отзывы клиентов. С расписанием не взаимодействует.
type ReviewService struct {
	reviews ReviewStore
	logger  *zap.Logger
}

func NewReviewService(reviews ReviewStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		logger:  logger,
	}
}

// Add создаёт отзыв
func (s *ReviewService) Add(ctx context.Context, clientID int64, clientName, text string) (*model.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty review", ErrValidation)
	}

	review := &model.Review{
		ClientID:   clientID,
		ClientName: clientName,
		Text:       text,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}

	s.logger.Info("Review added",
		zap.Int64("review_id", review.ID),
		zap.Int64("client_id", clientID))

	return review, nil
}

// List получает последние отзывы
func (s *ReviewService) List(ctx context.Context, limit int) ([]*model.Review, error) {
	return s.reviews.List(ctx, limit)
}

// Delete удаляет отзыв (только админ, проверяется обработчиком)
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}
