package state

import (
	"sync"
	"testing"
)

func TestManager_StateLifecycle(t *testing.T) {
	m := NewManager()

	if got := m.GetState(1); got != StateNone {
		t.Fatalf("fresh manager: state = %q, want none", got)
	}

	m.SetState(1, StateBookingName)
	if got := m.GetState(1); got != StateBookingName {
		t.Errorf("state = %q, want %q", got, StateBookingName)
	}

	// Переход шага сохраняет накопленный черновик
	m.Update(1, func(s *Session) {
		s.Booking.Name = "Аня"
		s.State = StateBookingPhone
	})

	session := m.Get(1)
	if session.State != StateBookingPhone {
		t.Errorf("state = %q, want %q", session.State, StateBookingPhone)
	}
	if session.Booking.Name != "Аня" {
		t.Errorf("draft name = %q, want %q", session.Booking.Name, "Аня")
	}

	m.Clear(1)
	if got := m.GetState(1); got != StateNone {
		t.Errorf("after clear: state = %q, want none", got)
	}
}

func TestManager_SetStateNoneDropsSession(t *testing.T) {
	m := NewManager()

	m.Update(7, func(s *Session) {
		s.State = StateBookingTime
		s.Booking = BookingDraft{Name: "Оля", Phone: "+79990001122", MasterID: 42}
	})

	m.SetState(7, StateNone)

	session := m.Get(7)
	if session.Booking.Name != "" || session.Booking.MasterID != 0 {
		t.Errorf("expected empty session after reset, got %+v", session.Booking)
	}
}

func TestManager_IndependentSessions(t *testing.T) {
	m := NewManager()

	m.SetState(1, StateBookingName)
	m.SetState(2, StateReviewText)

	if got := m.GetState(1); got != StateBookingName {
		t.Errorf("user 1 state = %q", got)
	}
	if got := m.GetState(2); got != StateReviewText {
		t.Errorf("user 2 state = %q", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, StateBookingName)
			m.Update(id, func(s *Session) { s.Booking.Name = "x" })
			m.Get(id)
			m.Clear(id)
		}(int64(i % 10))
	}
	wg.Wait()
}
