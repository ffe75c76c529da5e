package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
)

// SettingStore хранит настройки салона
type SettingStore interface {
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, key, value string) error
}

// SettingService — информационный текст салона и прочие настройки
type SettingService struct {
	settings SettingStore
	logger   *zap.Logger
}

func NewSettingService(settings SettingStore, logger *zap.Logger) *SettingService {
	return &SettingService{
		settings: settings,
		logger:   logger,
	}
}

// InfoText возвращает информационный текст для /start и /info
func (s *SettingService) InfoText(ctx context.Context) (string, error) {
	return s.settings.Get(ctx, model.SettingInfoText)
}

// GroupURL возвращает ссылку на группу салона, пустую строку если не задана
func (s *SettingService) GroupURL(ctx context.Context) (string, error) {
	return s.settings.Get(ctx, model.SettingGroupURL)
}

// SetInfoText обновляет информационный текст (админ)
func (s *SettingService) SetInfoText(ctx context.Context, text string) error {
	if err := s.settings.Upsert(ctx, model.SettingInfoText, text); err != nil {
		return fmt.Errorf("set info text: %w", err)
	}

	s.logger.Info("Info text updated", zap.Int("length", len(text)))
	return nil
}
