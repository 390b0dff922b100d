package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Шаги записи на услугу
	StateBookingProfessional UserState = "booking_professional"
	StateBookingService      UserState = "booking_service"
	StateBookingDate         UserState = "booking_date"
	StateBookingSlot         UserState = "booking_slot"
	StateBookingConfirm      UserState = "booking_confirm"
	StateBookingNotes        UserState = "booking_notes" // ждём текст комментария
)

// Ключи данных диалога записи
const (
	KeyProfessionalID = "professional_id"
	KeyServiceID      = "service_id"
	KeyDate           = "date"       // "2006-01-02"
	KeyStartTime      = "start_time" // "15:04"
	KeyNotes          = "notes"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any
}

// BookingDraft собранные в диалоге параметры записи
type BookingDraft struct {
	ProfessionalID int64
	ServiceID      int64
	Date           string
	StartTime      string
	Notes          string
}

// Complete все шаги выбора пройдены
func (d BookingDraft) Complete() bool {
	return d.ProfessionalID > 0 && d.ServiceID > 0 && d.Date != "" && d.StartTime != ""
}
