package state

import (
	"sync"
)

// Manager управляет диалоговыми сессиями пользователей.
// Сессии живут только в памяти: брошенный диалог не оставляет
// следов в БД и исчезает вместе с сессией.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // telegramID -> Session
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// GetState получает текущее состояние пользователя
func (m *Manager) GetState(telegramID int64) UserState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, exists := m.sessions[telegramID]; exists {
		return session.State
	}
	return StateNone
}

// Get возвращает копию сессии пользователя
func (m *Manager) Get(telegramID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, exists := m.sessions[telegramID]; exists {
		return *session
	}
	return Session{}
}

// SetState устанавливает состояние, сохраняя накопленные данные
func (m *Manager) SetState(telegramID int64, state UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state == StateNone {
		delete(m.sessions, telegramID)
		return
	}

	if session, exists := m.sessions[telegramID]; exists {
		session.State = state
		return
	}
	m.sessions[telegramID] = &Session{State: state}
}

// Update атомарно изменяет сессию пользователя
func (m *Manager) Update(telegramID int64, fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[telegramID]
	if !exists {
		session = &Session{}
		m.sessions[telegramID] = session
	}

	fn(session)

	if session.State == StateNone {
		delete(m.sessions, telegramID)
	}
}

// Clear сбрасывает сессию пользователя
func (m *Manager) Clear(telegramID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, telegramID)
}
