package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/notify"
	"github.com/manictest/salon_bot/internal/timeslot"
)

const (
	apptMasterID int64 = 100
	apptAdminID  int64 = 500
	apptClientID int64 = 200
)

// futureDate — дата через два дня: любой слот сетки гарантированно в будущем
func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 2).Format(timeslot.DateLayout)
}

func newApptEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.addMaster(t, apptMasterID)
	env.roster.add(&model.User{ID: apptAdminID, TelegramID: apptAdminID, Name: "Админ", IsAdmin: true})
	return env
}

func createAppt(t *testing.T, env *testEnv, tm string) *model.Appointment {
	t.Helper()
	appt, err := env.service.Create(context.Background(),
		apptMasterID, futureDate(), tm,
		apptClientID, "Ольга", "olga", "+79991234567")
	require.NoError(t, err)
	return appt
}

func masterActor() Actor { return Actor{TelegramID: apptMasterID, IsMaster: true} }
func clientActor() Actor { return Actor{TelegramID: apptClientID} }

func TestCreate_ReservesSlotAndNotifiesStaff(t *testing.T) {
	env := newApptEnv(t)

	appt := createAppt(t, env, "15:00")
	assert.Greater(t, appt.ID, int64(0))
	assert.Equal(t, model.AppointmentStatusPending, appt.Status)

	// Мастер и админ получили уведомление о новой записи
	assert.Equal(t, 1, env.dispatcher.count(notify.KindAppointmentCreated, apptMasterID))
	assert.Equal(t, 1, env.dispatcher.count(notify.KindAppointmentCreated, apptAdminID))

	// Слот больше не предлагается
	ok, err := env.calendar.IsOfferable(context.Background(), apptMasterID, appt.Date, appt.Time, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreate_Validation(t *testing.T) {
	env := newApptEnv(t)
	ctx := context.Background()

	_, err := env.service.Create(ctx, apptMasterID, futureDate(), "15:00", apptClientID, "  ", "olga", "+79991234567")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.service.Create(ctx, apptMasterID, futureDate(), "15:00", apptClientID, "Ольга", "olga", "89991234567")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.service.Create(ctx, apptMasterID, futureDate(), "15:00", apptClientID, "Ольга", "olga", "+123")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_UnknownMaster(t *testing.T) {
	env := newApptEnv(t)

	_, err := env.service.Create(context.Background(), 999, futureDate(), "15:00", apptClientID, "Ольга", "olga", "+79991234567")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_ClosedSlot(t *testing.T) {
	env := newApptEnv(t)
	date := futureDate()

	require.NoError(t, env.calendar.SetSlotAvailability(context.Background(), apptMasterID, date, "15:00", false))

	_, err := env.service.Create(context.Background(), apptMasterID, date, "15:00", apptClientID, "Ольга", "olga", "+79991234567")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

// Гонка за один слот: резервирование достаётся ровно одному клиенту
func TestCreate_ConcurrentExactlyOneWins(t *testing.T) {
	env := newApptEnv(t)
	date := futureDate()

	const clients = 8

	var wg sync.WaitGroup
	errs := make([]error, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.Create(context.Background(),
				apptMasterID, date, "15:00",
				int64(1000+i), "Клиент", "", "+79991234567")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, won)
}

func TestTransition_ConfirmByMaster(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	confirmed, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusConfirmed, masterActor())
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	assert.Equal(t, 1, env.dispatcher.count(notify.KindAppointmentConfirmed, apptClientID))
}

func TestTransition_ConfirmDeniedForClient(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusConfirmed, clientActor())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_ConfirmDeniedForOtherMaster(t *testing.T) {
	env := newApptEnv(t)
	env.addMaster(t, 101)
	appt := createAppt(t, env, "15:00")

	other := Actor{TelegramID: 101, IsMaster: true}
	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusConfirmed, other)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_AdminMayConfirm(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	admin := Actor{TelegramID: apptAdminID, IsAdmin: true}
	confirmed, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusConfirmed, admin)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)
}

func TestTransition_CancelledCannotBeConfirmed(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusCancelled, clientActor())
	require.NoError(t, err)

	_, err = env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusConfirmed, masterActor())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Отмена возвращает слот в предлагаемые: полный круг брони
func TestTransition_CancelReopensSlot(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusCancelled, clientActor())
	require.NoError(t, err)

	ok, err := env.calendar.IsOfferable(context.Background(), apptMasterID, appt.Date, appt.Time, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	// Слот можно забронировать заново
	again, err := env.service.Create(context.Background(), apptMasterID, appt.Date, appt.Time,
		apptClientID, "Ольга", "olga", "+79991234567")
	require.NoError(t, err)
	assert.NotEqual(t, appt.ID, again.ID)
}

func TestTransition_CancelByMasterNotifiesClient(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusCancelled, masterActor())
	require.NoError(t, err)

	assert.Equal(t, 1, env.dispatcher.count(notify.KindAppointmentCancelled, apptClientID))
	assert.Equal(t, 0, env.dispatcher.count(notify.KindAppointmentCancelled, apptMasterID))
}

func TestTransition_CancelByClientNotifiesMaster(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusCancelled, clientActor())
	require.NoError(t, err)

	assert.Equal(t, 1, env.dispatcher.count(notify.KindAppointmentCancelled, apptMasterID))
	assert.Equal(t, 0, env.dispatcher.count(notify.KindAppointmentCancelled, apptClientID))
}

func TestTransition_CancelDeniedForStranger(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	stranger := Actor{TelegramID: 777}
	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusCancelled, stranger)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_PastCannotBeCancelled(t *testing.T) {
	env := newApptEnv(t)

	appt := env.appts.seed(&model.Appointment{
		MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-01", Time: "10:00",
		Status: model.AppointmentStatusPast,
	})

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusCancelled, clientActor())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_UnknownAppointment(t *testing.T) {
	env := newApptEnv(t)

	_, err := env.service.Transition(context.Background(), 42, model.AppointmentStatusCancelled, clientActor())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransition_UnsupportedTarget(t *testing.T) {
	env := newApptEnv(t)
	appt := createAppt(t, env, "15:00")

	_, err := env.service.Transition(context.Background(), appt.ID, model.AppointmentStatusPast, masterActor())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSweepPast(t *testing.T) {
	env := newApptEnv(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-01", Time: "10:00", Status: model.AppointmentStatusPending})
	env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-02", Time: "10:00", Status: model.AppointmentStatusConfirmed})
	future := env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-02", Time: "13:00", Status: model.AppointmentStatusConfirmed})
	cancelled := env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-01", Time: "11:00", Status: model.AppointmentStatusCancelled})

	count, err := env.service.SweepPast(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	got, err := env.service.GetByID(context.Background(), future.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)

	got, err = env.service.GetByID(context.Background(), cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)

	// Повторный проход ничего не находит
	count, err = env.service.SweepPast(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDispatchDueReminders_FiresOnceInWindow(t *testing.T) {
	env := newApptEnv(t)

	appt := env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-03", Time: "12:00", Status: model.AppointmentStatusConfirmed})

	// До визита 23ч57м: внутри окна порога 24ч
	now := time.Date(2026, 3, 2, 12, 3, 0, 0, time.UTC)

	fired, err := env.service.DispatchDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, env.dispatcher.count(notify.KindReminderDue, apptClientID))

	got, err := env.service.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, got.Reminded24h)
	assert.False(t, got.Reminded2h)

	// Второй проход в том же окне не дублирует напоминание
	fired, err = env.service.DispatchDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, fired)
	assert.Equal(t, 1, env.dispatcher.count(notify.KindReminderDue, apptClientID))
}

func TestDispatchDueReminders_OutsideWindow(t *testing.T) {
	env := newApptEnv(t)

	env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-03", Time: "12:00", Status: model.AppointmentStatusConfirmed})

	// До визита 23ч: оба порога уже/ещё вне окна
	now := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)

	fired, err := env.service.DispatchDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestDispatchDueReminders_TwoHourThreshold(t *testing.T) {
	env := newApptEnv(t)

	env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-03", Time: "12:00", Status: model.AppointmentStatusConfirmed,
		Reminded24h: true})

	now := time.Date(2026, 3, 3, 10, 2, 0, 0, time.UTC)

	fired, err := env.service.DispatchDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	env.dispatcher.mu.Lock()
	last := env.dispatcher.events[len(env.dispatcher.events)-1]
	env.dispatcher.mu.Unlock()
	assert.Equal(t, notify.KindReminderDue, last.Kind)
	assert.Equal(t, 2, last.Hours)
}

// Неудавшаяся отправка не выставляет флаг: следующий проход повторяет попытку
func TestDispatchDueReminders_RetriesAfterFailure(t *testing.T) {
	env := newApptEnv(t)

	appt := env.appts.seed(&model.Appointment{MasterID: apptMasterID, ClientChatID: apptClientID,
		Date: "2026-03-03", Time: "12:00", Status: model.AppointmentStatusConfirmed})

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	env.dispatcher.setFail(true)
	fired, err := env.service.DispatchDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, fired)

	got, err := env.service.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.False(t, got.Reminded24h)

	env.dispatcher.setFail(false)
	fired, err = env.service.DispatchDueReminders(context.Background(), now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}
