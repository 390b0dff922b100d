package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/state"
	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBookStart начинает запись заново: список специалистов
func HandleBookStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		h.StateManager.StartBooking(hc.TelegramID)

		pros, err := h.Professionals.ListActive(ctx)
		if err != nil {
			common.HandleError(hc, err, "list professionals")
			return
		}

		text, kb := common.BuildProfessionalsScreen(pros)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show professionals", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleProfessional специалист выбран, показываем услуги
func HandleProfessional(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		proID, err := common.ParseIDFromCallback(callback.Data, common.BookProfessional)
		if err != nil {
			common.HandleError(hc, err, "parse professional")
			return
		}

		pro, err := activeProfessional(ctx, h, proID)
		if err != nil {
			common.HandleError(hc, err, "get professional")
			return
		}

		services, err := h.Catalog.ListServices(ctx)
		if err != nil {
			common.HandleError(hc, err, "list services")
			return
		}

		// выбор специалиста - первый шаг, старое сообщение тоже начинает диалог
		if _, ok := h.StateManager.Draft(hc.TelegramID); !ok {
			h.StateManager.StartBooking(hc.TelegramID)
		}
		hc.SetData(state.KeyProfessionalID, pro.ID)
		hc.SetState(state.StateBookingService)

		text, kb := common.BuildServicesScreen(pro, services)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show services", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleService услуга выбрана, показываем даты
func HandleService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err == nil && draft.ProfessionalID == 0 {
			err = common.ErrSessionExpired
		}
		if err != nil {
			common.HandleError(hc, err, "booking draft")
			return
		}

		serviceID, err := common.ParseIDFromCallback(callback.Data, common.BookService)
		if err != nil {
			common.HandleError(hc, err, "parse service")
			return
		}

		pro, svc, err := loadChoice(ctx, h, draft.ProfessionalID, serviceID)
		if err != nil {
			common.HandleError(hc, err, "load booking choice")
			return
		}

		hc.SetData(state.KeyServiceID, svc.ID)
		hc.SetState(state.StateBookingDate)

		text, kb := common.BuildDatesScreen(pro, svc, h.Today(), callbacktypes.BookingDays)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show dates", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleDate дата выбрана, показываем свободное время
func HandleDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err == nil && (draft.ProfessionalID == 0 || draft.ServiceID == 0) {
			err = common.ErrSessionExpired
		}
		if err != nil {
			common.HandleError(hc, err, "booking draft")
			return
		}

		args, err := common.ParseArgs(callback.Data, common.BookDate, 1)
		if err != nil {
			common.HandleError(hc, err, "parse date")
			return
		}
		date, err := h.Availability.ParseDate(args[0])
		if err != nil {
			common.HandleError(hc, err, "parse date")
			return
		}
		if date.Before(h.Today()) {
			common.HandleError(hc, service.ErrPastBooking, "choose date")
			return
		}

		hc.SetData(state.KeyDate, args[0])
		hc.SetState(state.StateBookingSlot)

		if err := showSlots(hc, draft.ProfessionalID, draft.ServiceID, date); err != nil {
			common.HandleError(hc, err, "show slots")
			return
		}
		hc.Answer("")
	})
}

// HandleSlot время выбрано, показываем подтверждение
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err == nil && draft.Date == "" {
			err = common.ErrSessionExpired
		}
		if err != nil {
			common.HandleError(hc, err, "booking draft")
			return
		}

		args, err := common.ParseArgs(callback.Data, common.BookSlot, 1)
		if err != nil {
			common.HandleError(hc, err, "parse slot")
			return
		}
		start, err := common.ParseSlotToken(args[0])
		if err != nil {
			common.HandleError(hc, err, "parse slot")
			return
		}

		hc.SetData(state.KeyStartTime, start)
		hc.SetState(state.StateBookingConfirm)
		draft.StartTime = start

		if err := showConfirm(hc, draft); err != nil {
			common.HandleError(hc, err, "show confirm")
			return
		}
		hc.Answer("")
	})
}

// HandleNotes ждём комментарий к записи текстом
func HandleNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err == nil && !draft.Complete() {
			err = common.ErrSessionExpired
		}
		if err != nil {
			common.HandleError(hc, err, "booking draft")
			return
		}

		hc.SetState(state.StateBookingNotes)

		kb := keyboard.NewBuilder().AddBackButton(common.BookSlot + common.SlotToken(draft.StartTime)).Build()
		if err := hc.EditMessage("💬 Напишите комментарий к записи одним сообщением.", kb); err != nil {
			h.Logger.Error("Failed to ask for notes", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirm создаёт запись
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithClient(ctx, b, callback, h, func(hc *common.HandlerContext) {
		draft, err := hc.Draft()
		if err == nil && !draft.Complete() {
			err = common.ErrSessionExpired
		}
		if err != nil {
			common.HandleError(hc, err, "booking draft")
			return
		}

		appointment, err := h.Appointments.Create(ctx, service.CreateAppointmentInput{
			ProfessionalID: draft.ProfessionalID,
			ClientID:       hc.Client.ID,
			ServiceID:      draft.ServiceID,
			Date:           draft.Date,
			StartTime:      draft.StartTime,
			Notes:          draft.Notes,
		}, h.Now())
		if err != nil {
			common.HandleError(hc, err, "create appointment")
			if date, perr := h.Availability.ParseDate(draft.Date); perr == nil && isSlotGone(err) {
				// время заняли, пока клиент думал: показываем актуальные слоты
				hc.SetState(state.StateBookingSlot)
				if err := showSlots(hc, draft.ProfessionalID, draft.ServiceID, date); err != nil {
					h.Logger.Error("Failed to refresh slots", zap.Error(err))
				}
			}
			return
		}

		hc.ClearState()

		h.Logger.Info("Appointment booked via bot",
			zap.Int64("appointment_id", appointment.ID),
			zap.Int64("client_id", hc.Client.ID),
			zap.Int64("telegram_id", hc.TelegramID),
		)

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("📅 Мои записи", common.MyAppointments)).
			Row(keyboard.Button("➕ Записаться ещё", common.BookStart)).
			Build()
		if err := hc.EditMessage("✅ <b>Вы записаны!</b>\n\n"+common.FormatAppointment(appointment), kb); err != nil {
			h.Logger.Error("Failed to show booked appointment", zap.Error(err))
		}
		hc.Answer("✅ Запись создана")
	})
}

// HandleAbort выход из диалога записи
func HandleAbort(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()
		if err := hc.EditMessage("Запись отменена. Начать заново: /book", nil); err != nil {
			h.Logger.Error("Failed to abort booking", zap.Error(err))
		}
		hc.Answer("")
	})
}

func showSlots(hc *common.HandlerContext, professionalID, serviceID int64, date time.Time) error {
	h := hc.Handler
	pro, svc, err := loadChoice(hc.Ctx, h, professionalID, serviceID)
	if err != nil {
		return err
	}

	free, err := h.Availability.ComputeAvailableSlots(hc.Ctx, professionalID, serviceID, date)
	if err != nil {
		return err
	}

	text, kb := common.BuildSlotsScreen(pro, svc, date, upcoming(free, date, h.Now()))
	return hc.EditMessage(text, kb)
}

func showConfirm(hc *common.HandlerContext, draft state.BookingDraft) error {
	h := hc.Handler
	pro, svc, err := loadChoice(hc.Ctx, h, draft.ProfessionalID, draft.ServiceID)
	if err != nil {
		return err
	}
	date, err := h.Availability.ParseDate(draft.Date)
	if err != nil {
		return err
	}

	text, kb := common.BuildConfirmScreen(pro, svc, date, draft.StartTime, draft.Notes)
	return hc.EditMessage(text, kb)
}

// ShowConfirmMessage отправляет экран подтверждения новым сообщением (после ввода комментария)
func ShowConfirmMessage(ctx context.Context, b *bot.Bot, chatID int64, h *callbacktypes.Handler, draft state.BookingDraft) error {
	pro, svc, err := loadChoice(ctx, h, draft.ProfessionalID, draft.ServiceID)
	if err != nil {
		return err
	}
	date, err := h.Availability.ParseDate(draft.Date)
	if err != nil {
		return err
	}

	text, kb := common.BuildConfirmScreen(pro, svc, date, draft.StartTime, draft.Notes)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	return err
}

func loadChoice(ctx context.Context, h *callbacktypes.Handler, professionalID, serviceID int64) (*model.Professional, *model.Service, error) {
	pro, err := activeProfessional(ctx, h, professionalID)
	if err != nil {
		return nil, nil, err
	}
	svc, err := h.Catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}
	if !svc.IsActive {
		return nil, nil, service.ErrServiceNotFound
	}
	return pro, svc, nil
}

func activeProfessional(ctx context.Context, h *callbacktypes.Handler, id int64) (*model.Professional, error) {
	pro, err := h.Professionals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pro.IsActive {
		return nil, service.ErrProfessionalNotFound
	}
	return pro, nil
}

// upcoming отбрасывает слоты, время начала которых уже прошло
func upcoming(free []string, date, now time.Time) []string {
	out := make([]string, 0, len(free))
	for _, raw := range free {
		c, err := slots.ParseClock(raw)
		if err != nil {
			continue
		}
		if c.On(date).After(now) {
			out = append(out, raw)
		}
	}
	return out
}

func isSlotGone(err error) bool {
	var conflict *service.SlotConflictError
	return errors.As(err, &conflict) || errors.Is(err, service.ErrPastBooking)
}
