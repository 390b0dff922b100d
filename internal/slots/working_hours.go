package slots

import (
	"fmt"
	"sort"
	"time"
)

// Shift рабочая смена [Start, End) в пределах одного календарного дня
type Shift struct {
	Start Clock
	End   Clock
}

// Length длительность смены
func (s Shift) Length() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// Contains проверяет, что [start, end) целиком внутри смены
func (s Shift) Contains(start, end Clock) bool {
	return s.Start <= start && end <= s.End
}

// Window смена как интервал на дату date ("24:00" - полночь следующего дня)
func (s Shift) Window(date time.Time) Interval {
	return Interval{Start: s.Start.On(date), End: s.End.On(date)}
}

// Validate start < end, оба в пределах суток
func (s Shift) Validate() error {
	if s.Start < Midnight || s.Start >= EndOfDay {
		return fmt.Errorf("%w: start %s", ErrInvalidShift, s.Start)
	}
	if s.End > EndOfDay {
		return fmt.Errorf("%w: end %s", ErrInvalidShift, s.End)
	}
	if s.Start >= s.End {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidShift, s.Start, s.End)
	}
	return nil
}

func (s Shift) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// WorkingHours недельное расписание специалиста: день недели -> смены.
// День без смен - выходной.
type WorkingHours map[time.Weekday][]Shift

// For возвращает смены дня недели, отсортированные по началу (копия)
func (wh WorkingHours) For(day time.Weekday) []Shift {
	shifts := append([]Shift(nil), wh[day]...)
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start < shifts[j].Start })
	return shifts
}

// Validate проверяет каждую смену и отсутствие пересечений смен внутри дня.
// Смены, касающиеся концами (12:00-14:00 и 14:00-18:00), допустимы.
func (wh WorkingHours) Validate() error {
	for day := range wh {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidShift, day)
		}
		shifts := wh.For(day)
		for i, s := range shifts {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			if i > 0 && shifts[i-1].End > s.Start {
				return fmt.Errorf("%w: %s shifts %s and %s overlap", ErrInvalidShift, day, shifts[i-1], s)
			}
		}
	}
	return nil
}

// IsEmpty нет ни одной смены
func (wh WorkingHours) IsEmpty() bool {
	for _, shifts := range wh {
		if len(shifts) > 0 {
			return false
		}
	}
	return true
}
