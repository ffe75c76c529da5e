package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/notify"
	"github.com/manictest/salon_bot/internal/repository"
	"github.com/manictest/salon_bot/internal/timeslot"
)

// Окно срабатывания напоминаний вокруг порогов 24ч и 2ч.
// Ширина согласована с 10-минутным интервалом свипера.
const reminderWindow = 6 * time.Minute

var reminderThresholds = []int{24, 2}

// phonePattern — международный формат: ведущий + и 10-15 цифр
var phonePattern = regexp.MustCompile(`^\+\d{10,15}$`)

// AppointmentStore хранит записи и выполняет атомарные операции над слотами
type AppointmentStore interface {
	Reserve(ctx context.Context, appt *model.Appointment) error
	Release(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	ListByClient(ctx context.Context, clientChatID int64) ([]*model.Appointment, error)
	ListActiveByMaster(ctx context.Context, masterID int64, fromDate string) ([]*model.Appointment, error)
	ListPendingByMaster(ctx context.Context, masterID int64) ([]*model.Appointment, error)
	ListAll(ctx context.Context, limit int) ([]*model.Appointment, error)
	ListConfirmed(ctx context.Context) ([]*model.Appointment, error)
	MarkPast(ctx context.Context, date, tm string) (int64, error)
	MarkReminded(ctx context.Context, id int64, hours int) error
}

// Actor — инициатор перехода статуса
type Actor struct {
	TelegramID int64
	IsMaster   bool
	IsAdmin    bool
}

// ActorFrom строит актора из пользователя
func ActorFrom(u *model.User) Actor {
	return Actor{TelegramID: u.TelegramID, IsMaster: u.IsMaster, IsAdmin: u.IsAdmin}
}

// AppointmentService — журнал записей: создание с резервированием слота,
// переходы статусов, свип прошедших визитов и напоминания.
type AppointmentService struct {
	appts      AppointmentStore
	calendar   *CalendarService
	roster     RosterStore
	dispatcher notify.Dispatcher
	loc        *time.Location
	logger     *zap.Logger
}

func NewAppointmentService(
	appts AppointmentStore,
	calendar *CalendarService,
	roster RosterStore,
	dispatcher notify.Dispatcher,
	loc *time.Location,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appts:      appts,
		calendar:   calendar,
		roster:     roster,
		dispatcher: dispatcher,
		loc:        loc,
		logger:     logger,
	}
}

// ValidateName проверяет имя клиента
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrValidation)
	}
	return name, nil
}

// ValidatePhone проверяет телефон в международном формате
func ValidatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return "", fmt.Errorf("%w: bad phone %q", ErrValidation, phone)
	}
	return phone, nil
}

// Create выполняет финальный шаг бронирования: проверяет, что слот всё ещё
// предлагается, и атомарно резервирует его. При проигрыше гонки возвращает
// ErrSlotUnavailable — клиенту следует заново запросить список слотов.
func (s *AppointmentService) Create(
	ctx context.Context,
	masterID int64,
	date, tm string,
	clientChatID int64,
	clientName, clientUsername, phone string,
) (*model.Appointment, error) {
	clientName, err := ValidateName(clientName)
	if err != nil {
		return nil, err
	}
	phone, err = ValidatePhone(phone)
	if err != nil {
		return nil, err
	}

	master, err := s.roster.GetByTelegramID(ctx, masterID)
	if err != nil {
		return nil, fmt.Errorf("get master: %w", err)
	}
	if master == nil || !master.IsMaster {
		return nil, fmt.Errorf("%w: master %d", ErrNotFound, masterID)
	}

	now := time.Now().In(s.loc)
	ok, err := s.calendar.IsOfferable(ctx, masterID, date, tm, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}

	appt := &model.Appointment{
		MasterID:       masterID,
		ClientChatID:   clientChatID,
		ClientName:     clientName,
		ClientUsername: clientUsername,
		Phone:          phone,
		Date:           date,
		Time:           tm,
		Status:         model.AppointmentStatusPending,
	}

	if err := s.appts.Reserve(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("master_id", masterID),
		zap.String("date", date),
		zap.String("time", tm))

	s.notifyStaff(ctx, appt, master)

	return appt, nil
}

// Transition переводит запись в новый статус от имени актора.
// Допустимы только pending→confirmed и {pending,confirmed}→cancelled;
// отмена освобождает слот. Нарушение легальности или прав актора
// возвращает ErrInvalidTransition без изменения состояния.
func (s *AppointmentService) Transition(ctx context.Context, id int64, newStatus model.AppointmentStatus, actor Actor) (*model.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, fmt.Errorf("%w: appointment %d", ErrNotFound, id)
	}

	switch newStatus {
	case model.AppointmentStatusConfirmed:
		if appt.Status != model.AppointmentStatusPending {
			return nil, fmt.Errorf("%w: %s -> confirmed", ErrInvalidTransition, appt.Status)
		}
		if !s.canManage(actor, appt) {
			return nil, fmt.Errorf("%w: actor %d may not confirm", ErrInvalidTransition, actor.TelegramID)
		}

		if err := s.appts.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: appointment %d", ErrNotFound, id)
			}
			return nil, fmt.Errorf("confirm appointment: %w", err)
		}
		appt.Status = model.AppointmentStatusConfirmed

		s.dispatch(ctx, notify.NewEvent(appt.ClientChatID, notify.KindAppointmentConfirmed, appt))

	case model.AppointmentStatusCancelled:
		isClient := actor.TelegramID == appt.ClientChatID
		if !appt.IsActive() {
			return nil, fmt.Errorf("%w: %s -> cancelled", ErrInvalidTransition, appt.Status)
		}
		if !isClient && !s.canManage(actor, appt) {
			return nil, fmt.Errorf("%w: actor %d may not cancel", ErrInvalidTransition, actor.TelegramID)
		}

		if err := s.appts.Release(ctx, appt); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: appointment %d", ErrNotFound, id)
			}
			return nil, fmt.Errorf("cancel appointment: %w", err)
		}

		// Инициатору ответ даёт обработчик, уведомляем вторую сторону
		if !isClient {
			s.dispatch(ctx, notify.NewEvent(appt.ClientChatID, notify.KindAppointmentCancelled, appt))
		}
		if actor.TelegramID != appt.MasterID {
			s.dispatch(ctx, notify.NewEvent(appt.MasterID, notify.KindAppointmentCancelled, appt))
		}

	default:
		return nil, fmt.Errorf("%w: target status %s", ErrInvalidTransition, newStatus)
	}

	s.logger.Info("Appointment transitioned",
		zap.Int64("appointment_id", id),
		zap.String("status", string(appt.Status)),
		zap.Int64("actor_id", actor.TelegramID))

	return appt, nil
}

// canManage: подтверждать и отменять запись может админ или её мастер
func (s *AppointmentService) canManage(actor Actor, appt *model.Appointment) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.IsMaster && actor.TelegramID == appt.MasterID
}

// SweepPast переводит просроченные записи в past. Идемпотентен.
// Слоты не освобождаются: визит уже состоялся.
func (s *AppointmentService) SweepPast(ctx context.Context, now time.Time) (int64, error) {
	local := now.In(s.loc)
	count, err := s.appts.MarkPast(ctx, local.Format(timeslot.DateLayout), local.Format(timeslot.TimeLayout))
	if err != nil {
		return 0, fmt.Errorf("sweep past: %w", err)
	}

	if count > 0 {
		s.logger.Info("Past appointments swept", zap.Int64("count", count))
	}

	return count, nil
}

// DispatchDueReminders рассылает напоминания за 24ч и 2ч до визита.
// Флаг выставляется только после успешной отправки: неудавшаяся попытка
// повторится на следующем проходе, пока окно не закрылось.
func (s *AppointmentService) DispatchDueReminders(ctx context.Context, now time.Time) (int, error) {
	appts, err := s.appts.ListConfirmed(ctx)
	if err != nil {
		return 0, fmt.Errorf("list confirmed: %w", err)
	}

	local := now.In(s.loc)
	fired := 0

	for _, appt := range appts {
		visitAt, err := appt.VisitAt(s.loc)
		if err != nil {
			s.logger.Warn("Skipping appointment with bad date/time",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err))
			continue
		}

		delta := visitAt.Sub(local)

		for _, hours := range reminderThresholds {
			if s.reminded(appt, hours) {
				continue
			}

			threshold := time.Duration(hours) * time.Hour
			if delta < threshold-reminderWindow || delta > threshold+reminderWindow {
				continue
			}

			event := notify.NewEvent(appt.ClientChatID, notify.KindReminderDue, appt)
			event.Hours = hours

			if err := s.dispatcher.Dispatch(ctx, event); err != nil {
				// Не ретраим в этом же проходе; окно даст ещё шанс
				continue
			}

			if err := s.appts.MarkReminded(ctx, appt.ID, hours); err != nil {
				s.logger.Error("Failed to mark reminder sent",
					zap.Int64("appointment_id", appt.ID),
					zap.Int("hours", hours),
					zap.Error(err))
				continue
			}

			s.setReminded(appt, hours)
			fired++
		}
	}

	return fired, nil
}

func (s *AppointmentService) reminded(appt *model.Appointment, hours int) bool {
	if hours == 24 {
		return appt.Reminded24h
	}
	return appt.Reminded2h
}

func (s *AppointmentService) setReminded(appt *model.Appointment, hours int) {
	if hours == 24 {
		appt.Reminded24h = true
	} else {
		appt.Reminded2h = true
	}
}

// GetByID получает запись, ErrNotFound если её нет
func (s *AppointmentService) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return nil, fmt.Errorf("%w: appointment %d", ErrNotFound, id)
	}
	return appt, nil
}

// ListByClient получает записи клиента
func (s *AppointmentService) ListByClient(ctx context.Context, clientChatID int64) ([]*model.Appointment, error) {
	return s.appts.ListByClient(ctx, clientChatID)
}

// ListActiveByMaster получает предстоящие активные записи мастера
func (s *AppointmentService) ListActiveByMaster(ctx context.Context, masterID int64, now time.Time) ([]*model.Appointment, error) {
	return s.appts.ListActiveByMaster(ctx, masterID, now.In(s.loc).Format(timeslot.DateLayout))
}

// ListPendingByMaster получает записи мастера, ожидающие подтверждения
func (s *AppointmentService) ListPendingByMaster(ctx context.Context, masterID int64) ([]*model.Appointment, error) {
	return s.appts.ListPendingByMaster(ctx, masterID)
}

// ListAll получает последние записи для админ-панели
func (s *AppointmentService) ListAll(ctx context.Context, limit int) ([]*model.Appointment, error) {
	return s.appts.ListAll(ctx, limit)
}

// notifyStaff уведомляет мастера и админов о новой записи
func (s *AppointmentService) notifyStaff(ctx context.Context, appt *model.Appointment, master *model.User) {
	s.dispatch(ctx, notify.NewEvent(master.TelegramID, notify.KindAppointmentCreated, appt))

	admins, err := s.roster.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("Failed to list admins for notification", zap.Error(err))
		return
	}
	for _, admin := range admins {
		if admin.TelegramID == master.TelegramID {
			continue
		}
		s.dispatch(ctx, notify.NewEvent(admin.TelegramID, notify.KindAppointmentCreated, appt))
	}
}

// dispatch отправляет событие, логируя, но не пробрасывая ошибку доставки
func (s *AppointmentService) dispatch(ctx context.Context, event notify.Event) {
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Warn("Notification not delivered",
			zap.String("kind", string(event.Kind)),
			zap.Int64("recipient_id", event.RecipientID),
			zap.Error(err))
	}
}
