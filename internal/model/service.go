package model

import "time"

const (
	MinServiceDuration = 5   // минут
	MaxServiceDuration = 600 // минут
)

// Service услуга, на которую записываются клиенты
type Service struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"` // 5..600
	PriceCents      int       `json:"price_cents"`      // в копейках/центах
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Duration длительность услуги
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
