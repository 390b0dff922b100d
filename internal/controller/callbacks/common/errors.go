package common

import (
	"errors"

	"github.com/Freeeeeet/appointment_scheduler/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrClientNotFound = errors.New("client not found")
	ErrNoMessage      = errors.New("no message in callback")
	ErrInvalidFormat  = errors.New("invalid callback format")
	ErrSessionExpired = errors.New("booking session expired")
	ErrNotOwner       = errors.New("appointment belongs to another client")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var conflict *service.SlotConflictError
	switch {
	case errors.Is(err, ErrClientNotFound):
		return "❌ Вы не зарегистрированы. Используйте /start"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrSessionExpired):
		return "⌛ Сессия записи устарела. Начните заново: /book"
	case errors.Is(err, ErrNotOwner):
		return "❌ Это не ваша запись"
	case errors.As(err, &conflict):
		if conflict.Concurrent {
			return "❌ Это время только что заняли. Выберите другое."
		}
		return "❌ Это время уже недоступно. Выберите другое."
	case errors.Is(err, service.ErrPastBooking):
		return "❌ Это время уже прошло. Выберите другое."
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Запись в этом статусе нельзя изменить"
	case errors.Is(err, service.ErrAppointmentNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, service.ErrProfessionalNotFound):
		return "❌ Специалист не найден"
	case errors.Is(err, service.ErrServiceNotFound):
		return "❌ Услуга не найдена"
	case errors.Is(err, service.ErrInvalidInput):
		return "❌ Неверные данные"
	default:
		return "❌ Произошла ошибка"
	}
}
