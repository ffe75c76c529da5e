package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// RuleStore хранит правила дней недели
type RuleStore interface {
	Upsert(ctx context.Context, rule *model.WeekdayRule) error
	ListByMaster(ctx context.Context, masterID int64) ([]*model.WeekdayRule, error)
}

// OverrideStore хранит явные переопределения доступности слотов
type OverrideStore interface {
	Upsert(ctx context.Context, slot *model.AvailabilitySlot) error
	Delete(ctx context.Context, masterID int64, date, tm string) error
	Get(ctx context.Context, masterID int64, date, tm string) (*model.AvailabilitySlot, error)
	ListByMasterDate(ctx context.Context, masterID int64, date string) ([]*model.AvailabilitySlot, error)
}

// RosterStore читает ростер персонала
type RosterStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	ListMasters(ctx context.Context) ([]*model.User, error)
	ListAdmins(ctx context.Context) ([]*model.User, error)
}

// CalendarService решает, какие слоты мастера можно предлагать.
// Слот предлагается, если день недели у мастера рабочий, нет
// переопределения is_available=false и момент слота строго в будущем.
type CalendarService struct {
	rules     RuleStore
	overrides OverrideStore
	roster    RosterStore
	logger    *zap.Logger
}

func NewCalendarService(rules RuleStore, overrides OverrideStore, roster RosterStore, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		rules:     rules,
		overrides: overrides,
		roster:    roster,
		logger:    logger,
	}
}

// IsOfferable проверяет, можно ли предложить слот.
// Для неизвестного или деактивированного мастера возвращает false без ошибки.
func (s *CalendarService) IsOfferable(ctx context.Context, masterID int64, date, tm string, now time.Time) (bool, error) {
	master, err := s.roster.GetByTelegramID(ctx, masterID)
	if err != nil {
		return false, fmt.Errorf("get master: %w", err)
	}
	if master == nil || !master.IsMaster {
		return false, nil
	}

	enabled, err := s.enabledWeekdays(ctx, masterID)
	if err != nil {
		return false, err
	}

	overrides, err := s.overrideMap(ctx, masterID, date)
	if err != nil {
		return false, err
	}

	ok, err := offerable(date, tm, now, enabled, overrides)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// OfferableTimes возвращает предлагаемые времена на дату, по возрастанию
func (s *CalendarService) OfferableTimes(ctx context.Context, masterID int64, date string, now time.Time) ([]string, error) {
	master, err := s.roster.GetByTelegramID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil || !master.IsMaster {
		return nil, nil
	}

	enabled, err := s.enabledWeekdays(ctx, masterID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideMap(ctx, masterID, date)
	if err != nil {
		return nil, err
	}

	var times []string
	for _, tm := range timeslot.Template {
		ok, err := offerable(date, tm, now, enabled, overrides)
		if err != nil {
			return nil, err
		}
		if ok {
			times = append(times, tm)
		}
	}

	return times, nil
}

// OfferableDates возвращает даты окна, на которые есть хотя бы один слот
func (s *CalendarService) OfferableDates(ctx context.Context, masterID int64, now time.Time, windowDays int) ([]string, error) {
	var dates []string
	for _, date := range timeslot.Dates(now, windowDays) {
		times, err := s.OfferableTimes(ctx, masterID, date, now)
		if err != nil {
			return nil, err
		}
		if len(times) > 0 {
			dates = append(dates, date)
		}
	}

	return dates, nil
}

// SetWeekdayEnabled включает или выключает рабочий день недели. Идемпотентен.
func (s *CalendarService) SetWeekdayEnabled(ctx context.Context, masterID int64, weekday int, enabled bool) error {
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("%w: weekday %d out of range", ErrValidation, weekday)
	}

	rule := &model.WeekdayRule{
		MasterID: masterID,
		Weekday:  weekday,
		Enabled:  enabled,
	}
	if err := s.rules.Upsert(ctx, rule); err != nil {
		return fmt.Errorf("set weekday enabled: %w", err)
	}

	s.logger.Info("Weekday rule updated",
		zap.Int64("master_id", masterID),
		zap.Int("weekday", weekday),
		zap.Bool("enabled", enabled))

	return nil
}

// SetSlotAvailability открывает или закрывает конкретный слот. Идемпотентен.
func (s *CalendarService) SetSlotAvailability(ctx context.Context, masterID int64, date, tm string, available bool) error {
	if !timeslot.IsTemplateTime(tm) {
		return fmt.Errorf("%w: time %q is not in the daily template", ErrValidation, tm)
	}
	if _, err := timeslot.Weekday(date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	slot := &model.AvailabilitySlot{
		MasterID:    masterID,
		Date:        date,
		Time:        tm,
		IsAvailable: available,
	}
	if err := s.overrides.Upsert(ctx, slot); err != nil {
		return fmt.Errorf("set slot availability: %w", err)
	}

	s.logger.Info("Slot availability updated",
		zap.Int64("master_id", masterID),
		zap.String("date", date),
		zap.String("time", tm),
		zap.Bool("available", available))

	return nil
}

// WeekdayRules возвращает правила мастера для клавиатуры настроек
func (s *CalendarService) WeekdayRules(ctx context.Context, masterID int64) ([]*model.WeekdayRule, error) {
	return s.rules.ListByMaster(ctx, masterID)
}

// DayOverrides возвращает переопределения мастера на дату
func (s *CalendarService) DayOverrides(ctx context.Context, masterID int64, date string) ([]*model.AvailabilitySlot, error) {
	return s.overrides.ListByMasterDate(ctx, masterID, date)
}

func (s *CalendarService) enabledWeekdays(ctx context.Context, masterID int64) (map[int]bool, error) {
	rules, err := s.rules.ListByMaster(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("list weekday rules: %w", err)
	}

	enabled := make(map[int]bool, len(rules))
	for _, rule := range rules {
		enabled[rule.Weekday] = rule.Enabled
	}
	return enabled, nil
}

func (s *CalendarService) overrideMap(ctx context.Context, masterID int64, date string) (map[string]bool, error) {
	overrides, err := s.overrides.ListByMasterDate(ctx, masterID, date)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}

	m := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		m[o.Time] = o.IsAvailable
	}
	return m, nil
}

// offerable — чистая проверка слота по уже загруженным правилам.
// Отсутствующее правило дня недели означает нерабочий день.
func offerable(date, tm string, now time.Time, enabled map[int]bool, overrides map[string]bool) (bool, error) {
	if !timeslot.IsTemplateTime(tm) {
		return false, nil
	}

	weekday, err := timeslot.Weekday(date)
	if err != nil {
		return false, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}
	if !enabled[weekday] {
		return false, nil
	}

	if available, exists := overrides[tm]; exists && !available {
		return false, nil
	}

	instant, err := timeslot.Instant(date, tm, now.Location())
	if err != nil {
		return false, err
	}
	return instant.After(now), nil
}
