package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/state"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"go.uber.org/zap"
)

// BookingDays на сколько дней вперёд бот предлагает даты для записи
const BookingDays = 7

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Appointments  *service.AppointmentService
	Availability  *service.AvailabilityService
	Professionals *service.ProfessionalService
	Catalog       *service.CatalogService
	Clients       *service.ClientService
	StateManager  *state.Manager
	Logger        *zap.Logger

	Now func() time.Time
}

// Today начало текущего дня в часовом поясе расписания
func (h *Handler) Today() time.Time {
	return h.Availability.Day(h.Now())
}
