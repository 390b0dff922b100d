package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock время суток в минутах от полуночи (0..1440)
type Clock int

const (
	// Midnight начало суток
	Midnight Clock = 0
	// EndOfDay конец суток, допустим только как конец смены ("24:00")
	EndOfDay Clock = 24 * 60
)

// ParseClock разбирает время в формате HH:MM.
// "24:00" разбирается как EndOfDay.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidClock, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	if hour == 24 && minute == 0 {
		return EndOfDay, nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidClock, s)
	}

	return Clock(hour*60 + minute), nil
}

// MustClock как ParseClock, но паникует. Только для констант и тестов.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf возвращает время суток момента t в его часовом поясе
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// Hour часы
func (c Clock) Hour() int { return int(c) / 60 }

// Minute минуты
func (c Clock) Minute() int { return int(c) % 60 }

// Add сдвигает время на d (с точностью до минуты)
func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

// String форматирует время как HH:MM с ведущими нулями
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On возвращает момент времени c в календарный день date (в поясе date).
// Для дней с переходом на летнее время пересчёт делает пакет time.
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, date.Location())
}

// Window интервал [c, c+d) на дату date. Длительность отсчитывается
// в абсолютном времени, поэтому в день перевода часов конец по часам
// может сдвинуться. false, если времени c в этот день нет
// (пропущенный при переводе вперёд час).
func (c Clock) Window(date time.Time, d time.Duration) (Interval, bool) {
	start := c.On(date)
	if ClockOf(start) != c {
		return Interval{}, false
	}
	return Interval{Start: start, End: start.Add(d)}, true
}

// FormatClocks форматирует последовательность времён в []string HH:MM
func FormatClocks(clocks []Clock) []string {
	out := make([]string, 0, len(clocks))
	for _, c := range clocks {
		out = append(out, c.String())
	}
	return out
}

// StartOfDay полночь календарного дня date в его поясе
func StartOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location())
}

// DayBounds интервал [00:00, 00:00 следующего дня) для date
func DayBounds(date time.Time) Interval {
	start := StartOfDay(date)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
