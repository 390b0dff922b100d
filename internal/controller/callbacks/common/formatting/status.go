package formatting

import "github.com/Freeeeeet/appointment_scheduler/internal/model"

// StatusDisplay представляет отображение статуса записи
type StatusDisplay struct {
	Emoji string
	Text  string
}

var appointmentStatusDisplays = map[model.AppointmentStatus]StatusDisplay{
	model.AppointmentStatusScheduled:  {"🗓", "Запланирована"},
	model.AppointmentStatusConfirmed:  {"✅", "Подтверждена"},
	model.AppointmentStatusInProgress: {"⏳", "Идёт приём"},
	model.AppointmentStatusCompleted:  {"✔️", "Завершена"},
	model.AppointmentStatusCancelled:  {"❌", "Отменена"},
	model.AppointmentStatusNoShow:     {"🚫", "Неявка"},
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	if display, ok := appointmentStatusDisplays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}
