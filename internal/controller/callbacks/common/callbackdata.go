package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
)

// Форматы callback data. Telegram ограничивает их 64 байтами.
const (
	BackToMain = "back_to_main"
	Noop       = "noop"

	BookStart        = "book_start"
	BookProfessional = "bk_pro:"  // bk_pro:professional_id
	BookService      = "bk_svc:"  // bk_svc:service_id
	BookDate         = "bk_date:" // bk_date:2026-10-19
	BookSlot         = "bk_slot:" // bk_slot:0945
	BookNotes        = "bk_notes"
	BookConfirm      = "bk_confirm"
	BookAbort        = "bk_abort"

	MyAppointments    = "my_appts"
	CancelAppointment = "cancel_appt:"    // cancel_appt:appointment_id
	ConfirmCancel     = "confirm_cancel:" // confirm_cancel:appointment_id

	DayStart        = "day_start"
	DayProfessional = "day_pro:"  // day_pro:professional_id
	DayDate         = "day_date:" // day_date:professional_id:2026-10-19
)

const dateLayout = "2006-01-02"

// SlotToken "09:45" -> "0945", двоеточие занято разделителем аргументов
func SlotToken(clock string) string {
	return strings.Replace(clock, ":", "", 1)
}

// ParseSlotToken "0945" -> "09:45"
func ParseSlotToken(token string) (string, error) {
	if len(token) != 4 {
		return "", fmt.Errorf("%w: slot %q", ErrInvalidFormat, token)
	}
	clock := token[:2] + ":" + token[2:]
	if _, err := slots.ParseClock(clock); err != nil {
		return "", fmt.Errorf("%w: slot %q", ErrInvalidFormat, token)
	}
	return clock, nil
}

// DateToken дата для callback data
func DateToken(date time.Time) string {
	return date.Format(dateLayout)
}
