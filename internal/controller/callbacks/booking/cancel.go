package booking

import (
	"context"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// CancelReason причина отмены, которую видит специалист
const CancelReason = "cancelled by client in telegram"

// HandleMyAppointments список предстоящих записей клиента
func HandleMyAppointments(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if err := showMyAppointments(hc); err != nil {
			common.HandleError(hc, err, "list client appointments")
			return
		}
		hc.Answer("")
	})
}

// HandleCancelAppointment спрашивает подтверждение отмены
func HandleCancelAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		appointment, err := ownAppointment(hc, common.CancelAppointment)
		if err != nil {
			common.HandleError(hc, err, "cancel appointment")
			return
		}
		if !common.Cancellable(appointment.Status) {
			common.HandleError(hc, service.ErrInvalidTransition, "cancel appointment")
			return
		}

		text, kb := common.BuildCancelConfirmScreen(appointment)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show cancel confirmation", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет запись и освобождает время
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		appointment, err := ownAppointment(hc, common.ConfirmCancel)
		if err != nil {
			common.HandleError(hc, err, "confirm cancel")
			return
		}

		if _, err := h.Appointments.Cancel(ctx, appointment.ID, CancelReason, h.Now()); err != nil {
			common.HandleError(hc, err, "confirm cancel")
			return
		}

		h.Logger.Info("Appointment cancelled via bot",
			zap.Int64("appointment_id", appointment.ID),
			zap.Int64("client_id", hc.Client.ID),
		)

		if err := showMyAppointments(hc); err != nil {
			h.Logger.Error("Failed to refresh appointments", zap.Error(err))
		}
		hc.Answer("✅ Запись отменена")
	})
}

func showMyAppointments(hc *common.HandlerContext) error {
	list, err := hc.Handler.Appointments.ListForClient(hc.Ctx, hc.Client.ID, hc.Handler.Now())
	if err != nil {
		return err
	}
	text, kb := common.BuildMyAppointmentsScreen(list)
	return hc.EditMessage(text, kb)
}

// ownAppointment запись из callback data, принадлежащая текущему клиенту
func ownAppointment(hc *common.HandlerContext, prefix string) (*model.Appointment, error) {
	id, err := common.ParseIDFromCallback(hc.Callback.Data, prefix)
	if err != nil {
		return nil, err
	}
	appointment, err := hc.Handler.Appointments.Get(hc.Ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.ClientID != hc.Client.ID {
		return nil, common.ErrNotOwner
	}
	return appointment, nil
}
