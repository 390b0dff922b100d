package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/state"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	appointments *service.AppointmentService,
	availability *service.AvailabilityService,
	professionals *service.ProfessionalService,
	catalog *service.CatalogService,
	clients *service.ClientService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{Handler: &callbacktypes.Handler{
		Appointments:  appointments,
		Availability:  availability,
		Professionals: professionals,
		Catalog:       catalog,
		Clients:       clients,
		StateManager:  stateManager,
		Logger:        logger,
		Now:           time.Now,
	}}
}

// HandleCallbackQuery точка входа для нажатий на inline кнопки
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	Route(ctx, b, update.CallbackQuery, h.Handler)
}
