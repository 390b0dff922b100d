package model

import "time"

// Vacation отпуск/отгул специалиста, может длиться несколько дней.
// Полностью блокирует запись внутри [StartsAt, EndsAt).
type Vacation struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
