package slots

import (
	"fmt"
	"time"
)

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение полуоткрытых интервалов: a < d && c < b.
// Касание концами (b == c) пересечением не считается.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains проверяет, что o целиком лежит внутри i
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

// Duration длина интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Valid интервал непустой
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Commitments занятость специалиста: активные (не отменённые) записи и отпуска.
// Движок только читает их.
type Commitments struct {
	Appointments []Interval
	Vacations    []Interval
}

// conflictWith возвращает первый занятый интервал, пересекающийся с candidate
func (c Commitments) conflictWith(candidate Interval) *Conflict {
	for _, v := range c.Vacations {
		if candidate.Overlaps(v) {
			return &Conflict{Reason: ReasonVacationOverlap, With: v}
		}
	}
	for _, a := range c.Appointments {
		if candidate.Overlaps(a) {
			return &Conflict{Reason: ReasonAppointmentOverlap, With: a}
		}
	}
	return nil
}
