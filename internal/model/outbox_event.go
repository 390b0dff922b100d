package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentBooked        = "appointment.booked.v1"
	EventAppointmentRescheduled   = "appointment.rescheduled.v1"
	EventAppointmentStatusChanged = "appointment.status_changed.v1"
)

// OutboxEvent событие, записанное в той же транзакции, что и изменение записи.
// Публикуется в Kafka фоновым publisher'ом.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	AggregateID int64
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}
