package state

import (
	"maps"
	"sync"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, данные диалога сохраняются.
// StateNone удаляет запись целиком.
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}
	sm.entry(telegramID).State = state
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(telegramID).Data[key] = value
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// GetAllData копия временных данных пользователя
func (sm *Manager) GetAllData(telegramID int64) map[string]any {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return maps.Clone(userData.Data)
	}
	return nil
}

// StartBooking начинает диалог записи заново
func (sm *Manager) StartBooking(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = &UserData{
		State: StateBookingProfessional,
		Data:  make(map[string]any),
	}
}

// Draft параметры записи из диалога. false - диалог записи не начат.
func (sm *Manager) Draft(telegramID int64) (BookingDraft, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists || !isBookingState(userData.State) {
		return BookingDraft{}, false
	}

	var d BookingDraft
	d.ProfessionalID, _ = userData.Data[KeyProfessionalID].(int64)
	d.ServiceID, _ = userData.Data[KeyServiceID].(int64)
	d.Date, _ = userData.Data[KeyDate].(string)
	d.StartTime, _ = userData.Data[KeyStartTime].(string)
	d.Notes, _ = userData.Data[KeyNotes].(string)
	return d, true
}

func (sm *Manager) entry(telegramID int64) *UserData {
	userData, exists := sm.states[telegramID]
	if !exists {
		userData = &UserData{
			State: StateNone,
			Data:  make(map[string]any),
		}
		sm.states[telegramID] = userData
	}
	return userData
}

func isBookingState(s UserState) bool {
	switch s {
	case StateBookingProfessional, StateBookingService, StateBookingDate,
		StateBookingSlot, StateBookingConfirm, StateBookingNotes:
		return true
	}
	return false
}
