package model

import "time"

// WorkingHoursEntry одна смена в недельном расписании специалиста
type WorkingHoursEntry struct {
	ID             int64        `json:"id"`
	ProfessionalID int64        `json:"professional_id"`
	Weekday        time.Weekday `json:"weekday"`    // 0 = Sunday, 6 = Saturday
	StartTime      string       `json:"start_time"` // HH:MM
	EndTime        string       `json:"end_time"`   // HH:MM, "24:00" - до конца суток
}
