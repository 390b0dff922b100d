package slots

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidClock    = errors.New("invalid time of day")
	ErrInvalidShift    = errors.New("invalid shift")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// ConflictReason причина, по которой интервал нельзя забронировать
type ConflictReason string

const (
	ReasonOutsideShift       ConflictReason = "outside_shift"
	ReasonAppointmentOverlap ConflictReason = "appointment_overlap"
	ReasonVacationOverlap    ConflictReason = "vacation_overlap"
)

// Conflict результат проверки Engine.Check, когда интервал занят или вне смены
type Conflict struct {
	Reason ConflictReason
	// With занятый интервал, с которым пересеклись (пустой для outside_shift)
	With Interval
}

func (c *Conflict) Error() string {
	if c.Reason == ReasonOutsideShift {
		return "slot is outside working hours"
	}
	return fmt.Sprintf("slot overlaps %s %s", c.Reason, c.With)
}
