package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrSlotConflict      = errors.New("slot conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPastBooking       = errors.New("appointment start is in the past")

	// Неизвестный ID - это и "не найдено", и некорректный ввод
	ErrProfessionalNotFound = fmt.Errorf("%w: professional %w", ErrInvalidInput, ErrNotFound)
	ErrServiceNotFound      = fmt.Errorf("%w: service %w", ErrInvalidInput, ErrNotFound)
	ErrClientNotFound       = fmt.Errorf("%w: client %w", ErrInvalidInput, ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("appointment %w", ErrNotFound)
	ErrVacationNotFound     = fmt.Errorf("vacation %w", ErrNotFound)
)

// SlotConflictError запись отклонена: время занято или вне смены.
// Содержит достаточно данных, чтобы показать пользователю сообщение
// и предложить другие слоты.
type SlotConflictError struct {
	ProfessionalID int64
	Start          time.Time
	End            time.Time
	Reason         slots.ConflictReason
	// Concurrent проверка прошла, но параллельная запись заняла время раньше
	Concurrent bool
}

func (e *SlotConflictError) Error() string {
	msg := fmt.Sprintf("professional %d is not available %s-%s: %s",
		e.ProfessionalID, e.Start.Format(time.RFC3339), e.End.Format("15:04"), e.Reason)
	if e.Concurrent {
		msg += " (concurrent booking)"
	}
	return msg
}

func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
