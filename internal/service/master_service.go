package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
)

// RosterAdminStore управляет пользователями и ролями персонала
type RosterAdminStore interface {
	RosterStore
	Upsert(ctx context.Context, telegramID int64, username string) (*model.User, error)
	SetMasterRole(ctx context.Context, telegramID int64, isMaster bool) error
	SetAdminRole(ctx context.Context, telegramID int64, isAdmin bool) error
	UpdateProfile(ctx context.Context, telegramID int64, name, phone string) error
}

// RuleSeeder создаёт стартовые правила дней недели для нового мастера
type RuleSeeder interface {
	SeedDefaults(ctx context.Context, masterID int64) error
}

// MasterService управляет ростером персонала
type MasterService struct {
	roster RosterAdminStore
	seeder RuleSeeder
	logger *zap.Logger
}

func NewMasterService(roster RosterAdminStore, seeder RuleSeeder, logger *zap.Logger) *MasterService {
	return &MasterService{
		roster: roster,
		seeder: seeder,
		logger: logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя при /start
func (s *MasterService) RegisterUser(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	user, err := s.roster.Upsert(ctx, telegramID, username)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}

// GetByTelegramID получает пользователя, nil если не найден
func (s *MasterService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.roster.GetByTelegramID(ctx, telegramID)
}

// ListMasters получает активных мастеров
func (s *MasterService) ListMasters(ctx context.Context) ([]*model.User, error) {
	return s.roster.ListMasters(ctx)
}

// GrantMaster делает пользователя мастером и заполняет профиль.
// Новому мастеру создаются правила по умолчанию: будни рабочие.
func (s *MasterService) GrantMaster(ctx context.Context, telegramID int64, name, phone string) error {
	if err := s.roster.SetMasterRole(ctx, telegramID, true); err != nil {
		return fmt.Errorf("grant master role: %w", err)
	}

	if name != "" || phone != "" {
		if err := s.roster.UpdateProfile(ctx, telegramID, name, phone); err != nil {
			return fmt.Errorf("update master profile: %w", err)
		}
	}

	if err := s.seeder.SeedDefaults(ctx, telegramID); err != nil {
		return fmt.Errorf("seed weekday defaults: %w", err)
	}

	s.logger.Info("Master granted",
		zap.Int64("telegram_id", telegramID),
		zap.String("name", name))

	return nil
}

// RevokeMaster снимает роль мастера. Мягкое удаление: строка пользователя
// и история его записей остаются нетронутыми.
func (s *MasterService) RevokeMaster(ctx context.Context, telegramID int64) error {
	if err := s.roster.SetMasterRole(ctx, telegramID, false); err != nil {
		return fmt.Errorf("revoke master role: %w", err)
	}

	s.logger.Info("Master revoked", zap.Int64("telegram_id", telegramID))
	return nil
}

// UpdateProfile обновляет имя и телефон мастера
func (s *MasterService) UpdateProfile(ctx context.Context, telegramID int64, name, phone string) error {
	if err := s.roster.UpdateProfile(ctx, telegramID, name, phone); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// EnsureAdmins гарантирует админскую роль для id из конфигурации
func (s *MasterService) EnsureAdmins(ctx context.Context, telegramIDs []int64) error {
	for _, id := range telegramIDs {
		if err := s.roster.SetAdminRole(ctx, id, true); err != nil {
			return fmt.Errorf("ensure admin %d: %w", id, err)
		}
	}

	if len(telegramIDs) > 0 {
		s.logger.Info("Admins ensured", zap.Int("count", len(telegramIDs)))
	}

	return nil
}
