package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/google/uuid"
)

// AppointmentPayload тело событий о записи
type AppointmentPayload struct {
	AppointmentID  int64                   `json:"appointment_id"`
	ProfessionalID int64                   `json:"professional_id"`
	ClientID       int64                   `json:"client_id"`
	ServiceID      int64                   `json:"service_id"`
	StartsAt       time.Time               `json:"starts_at"`
	EndsAt         time.Time               `json:"ends_at"`
	Status         model.AppointmentStatus `json:"status"`
	PreviousStatus model.AppointmentStatus `json:"previous_status,omitempty"`
	PreviousStart  *time.Time              `json:"previous_starts_at,omitempty"`
	Reason         string                  `json:"reason,omitempty"`
}

// NewAppointmentEvent собирает outbox-событие eventType для записи a
func NewAppointmentEvent(eventType string, a *model.Appointment, mutate func(p *AppointmentPayload)) (*model.OutboxEvent, error) {
	payload := AppointmentPayload{
		AppointmentID:  a.ID,
		ProfessionalID: a.ProfessionalID,
		ClientID:       a.ClientID,
		ServiceID:      a.ServiceID,
		StartsAt:       a.StartsAt,
		EndsAt:         a.EndsAt,
		Status:         a.Status,
	}
	if mutate != nil {
		mutate(&payload)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	return &model.OutboxEvent{
		EventID:     uuid.New(),
		AggregateID: a.ID,
		EventType:   eventType,
		Payload:     raw,
	}, nil
}
