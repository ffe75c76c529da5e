package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manictest/salon_bot/internal/model"
)

// 2 марта 2026 — понедельник
var calNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const calMasterID int64 = 100

func newCalendarEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.roster.add(&model.User{ID: calMasterID, TelegramID: calMasterID, Name: "Аня", IsMaster: true})
	return env
}

func enableWeekday(t *testing.T, env *testEnv, weekday int) {
	t.Helper()
	require.NoError(t, env.calendar.SetWeekdayEnabled(context.Background(), calMasterID, weekday, true))
}

func TestIsOfferable_EnabledWeekday(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	ok, err := env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "15:00", calNow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsOfferable_DisabledWeekdayByDefault(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	// 3 марта — вторник, правила для него нет
	ok, err := env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-03", "15:00", calNow)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsOfferable_OverrideClosesSlot(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	require.NoError(t, env.calendar.SetSlotAvailability(context.Background(), calMasterID, "2026-03-02", "15:00", false))

	ok, err := env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "15:00", calNow)
	require.NoError(t, err)
	assert.False(t, ok)

	// Соседний слот того же дня остаётся открытым
	ok, err = env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "16:00", calNow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsOfferable_PastSlot(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	// now = 09:00, утренних слотов ещё нет, но 10:00 того же дня в будущем
	late := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)

	ok, err := env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "10:00", late)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "13:00", late)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsOfferable_UnknownMaster(t *testing.T) {
	env := newCalendarEnv(t)

	ok, err := env.calendar.IsOfferable(context.Background(), 999, "2026-03-02", "15:00", calNow)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsOfferable_RevokedMaster(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)
	env.roster.add(&model.User{ID: calMasterID, TelegramID: calMasterID, IsMaster: false})

	ok, err := env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "15:00", calNow)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsOfferable_TimeOutsideTemplate(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	ok, err := env.calendar.IsOfferable(context.Background(), calMasterID, "2026-03-02", "14:00", calNow)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOfferableTimes_Ascending(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	require.NoError(t, env.calendar.SetSlotAvailability(context.Background(), calMasterID, "2026-03-02", "11:00", false))

	times, err := env.calendar.OfferableTimes(context.Background(), calMasterID, "2026-03-02", calNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "12:00", "13:00", "15:00", "16:00", "17:00"}, times)
}

func TestOfferableDates_SkipsFullDays(t *testing.T) {
	env := newCalendarEnv(t)
	// Работает только по понедельникам
	enableWeekday(t, env, 0)

	dates, err := env.calendar.OfferableDates(context.Background(), calMasterID, calNow, 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-02", "2026-03-09"}, dates)
}

func TestSetWeekdayEnabled_Validation(t *testing.T) {
	env := newCalendarEnv(t)

	err := env.calendar.SetWeekdayEnabled(context.Background(), calMasterID, 7, true)
	assert.ErrorIs(t, err, ErrValidation)

	err = env.calendar.SetWeekdayEnabled(context.Background(), calMasterID, -1, true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetWeekdayEnabled_Idempotent(t *testing.T) {
	env := newCalendarEnv(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.calendar.SetWeekdayEnabled(context.Background(), calMasterID, 0, true))
	}

	rules, err := env.calendar.WeekdayRules(context.Background(), calMasterID)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].Enabled)
}

func TestSetSlotAvailability_Validation(t *testing.T) {
	env := newCalendarEnv(t)

	err := env.calendar.SetSlotAvailability(context.Background(), calMasterID, "2026-03-02", "14:30", false)
	assert.ErrorIs(t, err, ErrValidation)

	err = env.calendar.SetSlotAvailability(context.Background(), calMasterID, "03.02.2026", "15:00", false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetSlotAvailability_Reopen(t *testing.T) {
	env := newCalendarEnv(t)
	enableWeekday(t, env, 0)

	ctx := context.Background()
	require.NoError(t, env.calendar.SetSlotAvailability(ctx, calMasterID, "2026-03-02", "15:00", false))
	require.NoError(t, env.calendar.SetSlotAvailability(ctx, calMasterID, "2026-03-02", "15:00", true))

	ok, err := env.calendar.IsOfferable(ctx, calMasterID, "2026-03-02", "15:00", calNow)
	require.NoError(t, err)
	assert.True(t, ok)
}
