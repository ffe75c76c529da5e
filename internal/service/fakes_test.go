package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/manictest/salon_bot/internal/model"
	"github.com/manictest/salon_bot/internal/notify"
	"github.com/manictest/salon_bot/internal/repository"
)

// In-memory реализации сторов для тестов сервисов без базы.
// Семантика повторяет репозитории: резервирование взаимоисключающее,
// отмена освобождает слот.

type memRules struct {
	mu    sync.Mutex
	rules map[int64]map[int]bool
}

func newMemRules() *memRules {
	return &memRules{rules: map[int64]map[int]bool{}}
}

func (m *memRules) Upsert(_ context.Context, rule *model.WeekdayRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rules[rule.MasterID] == nil {
		m.rules[rule.MasterID] = map[int]bool{}
	}
	m.rules[rule.MasterID][rule.Weekday] = rule.Enabled
	return nil
}

func (m *memRules) ListByMaster(_ context.Context, masterID int64) ([]*model.WeekdayRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.WeekdayRule
	for d, enabled := range m.rules[masterID] {
		out = append(out, &model.WeekdayRule{MasterID: masterID, Weekday: d, Enabled: enabled})
	}
	return out, nil
}

func (m *memRules) SeedDefaults(ctx context.Context, masterID int64) error {
	for d := 0; d < 7; d++ {
		if err := m.Upsert(ctx, &model.WeekdayRule{MasterID: masterID, Weekday: d, Enabled: d < 5}); err != nil {
			return err
		}
	}
	return nil
}

type overrideKey struct {
	masterID int64
	date     string
	tm       string
}

type memOverrides struct {
	mu    sync.Mutex
	slots map[overrideKey]bool
}

func newMemOverrides() *memOverrides {
	return &memOverrides{slots: map[overrideKey]bool{}}
}

func (m *memOverrides) Upsert(_ context.Context, slot *model.AvailabilitySlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[overrideKey{slot.MasterID, slot.Date, slot.Time}] = slot.IsAvailable
	return nil
}

func (m *memOverrides) Delete(_ context.Context, masterID int64, date, tm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, overrideKey{masterID, date, tm})
	return nil
}

func (m *memOverrides) Get(_ context.Context, masterID int64, date, tm string) (*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	available, ok := m.slots[overrideKey{masterID, date, tm}]
	if !ok {
		return nil, nil
	}
	return &model.AvailabilitySlot{MasterID: masterID, Date: date, Time: tm, IsAvailable: available}, nil
}

func (m *memOverrides) ListByMasterDate(_ context.Context, masterID int64, date string) ([]*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.AvailabilitySlot
	for k, available := range m.slots {
		if k.masterID == masterID && k.date == date {
			out = append(out, &model.AvailabilitySlot{MasterID: masterID, Date: k.date, Time: k.tm, IsAvailable: available})
		}
	}
	return out, nil
}

type memRoster struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func newMemRoster() *memRoster {
	return &memRoster{users: map[int64]*model.User{}}
}

func (m *memRoster) add(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.TelegramID] = u
}

func (m *memRoster) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memRoster) ListMasters(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		if u.IsMaster {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRoster) ListAdmins(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		if u.IsAdmin {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRoster) Upsert(_ context.Context, telegramID int64, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[telegramID]
	if !ok {
		u = &model.User{ID: telegramID, TelegramID: telegramID}
		m.users[telegramID] = u
	}
	u.Username = username
	cp := *u
	return &cp, nil
}

func (m *memRoster) SetMasterRole(_ context.Context, telegramID int64, isMaster bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[telegramID]
	if !ok {
		u = &model.User{ID: telegramID, TelegramID: telegramID}
		m.users[telegramID] = u
	}
	u.IsMaster = isMaster
	return nil
}

func (m *memRoster) SetAdminRole(_ context.Context, telegramID int64, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[telegramID]
	if !ok {
		u = &model.User{ID: telegramID, TelegramID: telegramID}
		m.users[telegramID] = u
	}
	u.IsAdmin = isAdmin
	return nil
}

func (m *memRoster) UpdateProfile(_ context.Context, telegramID int64, name, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[telegramID]; ok {
		u.Name = name
		u.Phone = phone
	}
	return nil
}

// memAppts резервирует и освобождает слоты в связке с memOverrides,
// как это делает AppointmentRepository через транзакции
type memAppts struct {
	mu        sync.Mutex
	seq       int64
	appts     map[int64]*model.Appointment
	overrides *memOverrides
}

func newMemAppts(overrides *memOverrides) *memAppts {
	return &memAppts{appts: map[int64]*model.Appointment{}, overrides: overrides}
}

func (m *memAppts) seed(appt *model.Appointment) *model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	appt.ID = m.seq
	cp := *appt
	m.appts[appt.ID] = &cp
	return appt
}

func (m *memAppts) Reserve(ctx context.Context, appt *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.appts {
		if a.MasterID == appt.MasterID && a.Date == appt.Date && a.Time == appt.Time && a.IsActive() {
			return repository.ErrSlotTaken
		}
	}

	m.seq++
	appt.ID = m.seq
	cp := *appt
	m.appts[appt.ID] = &cp

	return m.overrides.Upsert(ctx, &model.AvailabilitySlot{
		MasterID: appt.MasterID, Date: appt.Date, Time: appt.Time, IsAvailable: false,
	})
}

func (m *memAppts) Release(ctx context.Context, appt *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.appts[appt.ID]
	if !ok || !stored.IsActive() {
		return repository.ErrNotFound
	}
	stored.Status = model.AppointmentStatusCancelled

	return m.overrides.Delete(ctx, stored.MasterID, stored.Date, stored.Time)
}

func (m *memAppts) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memAppts) UpdateStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memAppts) ListByClient(_ context.Context, clientChatID int64) ([]*model.Appointment, error) {
	return m.list(func(a *model.Appointment) bool { return a.ClientChatID == clientChatID })
}

func (m *memAppts) ListActiveByMaster(_ context.Context, masterID int64, fromDate string) ([]*model.Appointment, error) {
	return m.list(func(a *model.Appointment) bool {
		return a.MasterID == masterID && a.IsActive() && a.Date >= fromDate
	})
}

func (m *memAppts) ListPendingByMaster(_ context.Context, masterID int64) ([]*model.Appointment, error) {
	return m.list(func(a *model.Appointment) bool {
		return a.MasterID == masterID && a.Status == model.AppointmentStatusPending
	})
}

func (m *memAppts) ListAll(_ context.Context, limit int) ([]*model.Appointment, error) {
	out, err := m.list(func(*model.Appointment) bool { return true })
	if err == nil && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (m *memAppts) ListConfirmed(_ context.Context) ([]*model.Appointment, error) {
	return m.list(func(a *model.Appointment) bool {
		return a.Status == model.AppointmentStatusConfirmed && (!a.Reminded24h || !a.Reminded2h)
	})
}

func (m *memAppts) MarkPast(_ context.Context, date, tm string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, a := range m.appts {
		if a.IsActive() && (a.Date < date || (a.Date == date && a.Time < tm)) {
			a.Status = model.AppointmentStatusPast
			count++
		}
	}
	return count, nil
}

func (m *memAppts) MarkReminded(_ context.Context, id int64, hours int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if hours == 24 {
		a.Reminded24h = true
	} else {
		a.Reminded2h = true
	}
	return nil
}

func (m *memAppts) list(keep func(*model.Appointment) bool) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Appointment
	for _, a := range m.appts {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
	fail   bool
}

func (d *fakeDispatcher) Dispatch(_ context.Context, event notify.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return context.DeadlineExceeded
	}
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) setFail(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = fail
}

func (d *fakeDispatcher) count(kind notify.Kind, recipientID int64) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.events {
		if e.Kind == kind && e.RecipientID == recipientID {
			n++
		}
	}
	return n
}

// testEnv собирает сервисы на in-memory сторах
type testEnv struct {
	rules      *memRules
	overrides  *memOverrides
	roster     *memRoster
	appts      *memAppts
	dispatcher *fakeDispatcher
	calendar   *CalendarService
	service    *AppointmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		rules:      newMemRules(),
		overrides:  newMemOverrides(),
		roster:     newMemRoster(),
		dispatcher: &fakeDispatcher{},
	}
	env.appts = newMemAppts(env.overrides)

	logger := zap.NewNop()
	env.calendar = NewCalendarService(env.rules, env.overrides, env.roster, logger)
	env.service = NewAppointmentService(env.appts, env.calendar, env.roster, env.dispatcher, time.UTC, logger)

	return env
}

// addMaster регистрирует мастера с рабочими днями всю неделю
func (env *testEnv) addMaster(t *testing.T, telegramID int64) {
	t.Helper()

	env.roster.add(&model.User{ID: telegramID, TelegramID: telegramID, Name: "Мастер", IsMaster: true})
	for d := 0; d < 7; d++ {
		if err := env.rules.Upsert(context.Background(), &model.WeekdayRule{MasterID: telegramID, Weekday: d, Enabled: true}); err != nil {
			t.Fatalf("seed rules: %v", err)
		}
	}
}
