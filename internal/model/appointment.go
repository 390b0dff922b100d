package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED" // освобождает время
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// appointmentTransitions допустимые переходы статусов
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusInProgress,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusInProgress: {
		AppointmentStatusCompleted,
	},
}

// Valid известный статус
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal из статуса нет переходов
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// OccupiesCalendar занимает ли запись время специалиста.
// Время освобождает только отмена.
func (s AppointmentStatus) OccupiesCalendar() bool {
	return s != AppointmentStatusCancelled
}

// CanTransitionTo допустим ли переход s -> next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID             int64             `json:"id"`
	ProfessionalID int64             `json:"professional_id"`
	ClientID       int64             `json:"client_id"`
	ServiceID      int64             `json:"service_id"`
	StartsAt       time.Time         `json:"starts_at"`
	EndsAt         time.Time         `json:"ends_at"` // StartsAt + длительность услуги на момент создания
	Status         AppointmentStatus `json:"status"`
	PriceCents     int               `json:"price_cents"` // цена услуги на момент записи
	Notes          string            `json:"notes,omitempty"`
	CancelReason   string            `json:"cancel_reason,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Service      *Service      `json:"service,omitempty"`
	Professional *Professional `json:"professional,omitempty"`
}

// Duration длительность записи
func (a *Appointment) Duration() time.Duration {
	return a.EndsAt.Sub(a.StartsAt)
}
