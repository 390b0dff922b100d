// Package slots вычисляет свободные для записи времена и проверяет
// новую запись на пересечения. Пакет не делает I/O: всё, что нужно,
// передаётся уже загруженным.
package slots

import (
	"iter"
	"slices"
	"time"
)

// Engine движок слотов. Не хранит изменяемого состояния, безопасен
// для конкурентного использования.
type Engine struct {
	// step шаг сетки кандидатов; 0 - шаг равен длительности услуги (запись встык)
	step time.Duration
}

// NewEngine создаёт движок. step <= 0 означает запись встык:
// кандидаты shiftStart, shiftStart+duration, shiftStart+2*duration, ...
func NewEngine(step time.Duration) *Engine {
	if step < 0 {
		step = 0
	}
	return &Engine{step: step}
}

// Step шаг сетки для услуги длительностью duration
func (e *Engine) Step(duration time.Duration) time.Duration {
	if e == nil || e.step <= 0 {
		return duration
	}
	return e.step
}

// Candidates ленивая конечная последовательность свободных времён начала
// на дату date в порядке возрастания. Повторный обход заново считает
// результат по тем же данным.
//
// Пустая последовательность, если в этот день нет смен, duration <= 0
// или услуга длиннее любой смены.
func (e *Engine) Candidates(hours WorkingHours, date time.Time, duration time.Duration, busy Commitments) iter.Seq[Clock] {
	return func(yield func(Clock) bool) {
		if duration <= 0 {
			return
		}
		step := e.Step(duration)
		if step < time.Minute {
			return
		}

		for _, shift := range hours.For(date.Weekday()) {
			if shift.Length() < duration {
				continue
			}
			bounds := shift.Window(date)
			// Хвост смены короче услуги не предлагается
			for start := shift.Start; start.Add(duration) <= shift.End; start = start.Add(step) {
				candidate, ok := start.Window(date, duration)
				if !ok || !bounds.Contains(candidate) {
					continue
				}
				if busy.conflictWith(candidate) != nil {
					continue
				}
				if !yield(start) {
					return
				}
			}
		}
	}
}

// Slots материализует Candidates
func (e *Engine) Slots(hours WorkingHours, date time.Time, duration time.Duration, busy Commitments) []Clock {
	return slices.Collect(e.Candidates(hours, date, duration, busy))
}

// Check проверяет конкретный интервал [start, start+duration) на дату date.
// nil - можно бронировать; *Conflict - вне смены или пересекается с записью/отпуском.
// Выравнивание по сетке кандидатов не требуется.
func (e *Engine) Check(hours WorkingHours, date time.Time, start Clock, duration time.Duration, busy Commitments) error {
	if duration <= 0 {
		return ErrInvalidDuration
	}

	end := start.Add(duration)
	if start < Midnight || end > EndOfDay {
		return &Conflict{Reason: ReasonOutsideShift}
	}

	candidate, ok := start.Window(date, duration)
	if !ok {
		return &Conflict{Reason: ReasonOutsideShift}
	}

	inShift := false
	for _, shift := range hours.For(date.Weekday()) {
		if shift.Contains(start, end) && shift.Window(date).Contains(candidate) {
			inShift = true
			break
		}
	}
	if !inShift {
		return &Conflict{Reason: ReasonOutsideShift}
	}

	if c := busy.conflictWith(candidate); c != nil {
		return c
	}
	return nil
}

// Fits булева форма Check
func (e *Engine) Fits(hours WorkingHours, date time.Time, start Clock, duration time.Duration, busy Commitments) bool {
	return e.Check(hours, date, start, duration, busy) == nil
}
