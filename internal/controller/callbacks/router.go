package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	// ===== Навигация =====
	case data == common.BackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Запись =====
	case data == common.BookStart:
		booking.HandleBookStart(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookProfessional):
		booking.HandleProfessional(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookService):
		booking.HandleService(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookDate):
		booking.HandleDate(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookSlot):
		booking.HandleSlot(ctx, b, callback, h)
	case data == common.BookNotes:
		booking.HandleNotes(ctx, b, callback, h)
	case data == common.BookConfirm:
		booking.HandleConfirm(ctx, b, callback, h)
	case data == common.BookAbort:
		booking.HandleAbort(ctx, b, callback, h)

	// ===== Мои записи =====
	case data == common.MyAppointments:
		booking.HandleMyAppointments(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CancelAppointment):
		booking.HandleCancelAppointment(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ConfirmCancel):
		booking.HandleConfirmCancel(ctx, b, callback, h)

	// ===== Расписание дня =====
	case data == common.DayStart:
		schedule.HandleDayStart(ctx, b, callback, h)
	case strings.HasPrefix(data, common.DayProfessional):
		schedule.HandleDayProfessional(ctx, b, callback, h)
	case strings.HasPrefix(data, common.DayDate):
		schedule.HandleDayDate(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
