package schedule

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var errNoServices = errors.New("no active services")

// HandleDayStart выбор специалиста для картинки дня
func HandleDayStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		pros, err := h.Professionals.ListActive(ctx)
		if err != nil {
			common.HandleError(hc, err, "list professionals")
			return
		}
		text, kb := common.BuildDayProfessionalsScreen(pros)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show professionals", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleDayProfessional выбор даты
func HandleDayProfessional(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		proID, err := common.ParseIDFromCallback(callback.Data, common.DayProfessional)
		if err != nil {
			common.HandleError(hc, err, "parse professional")
			return
		}
		pro, err := h.Professionals.Get(ctx, proID)
		if err != nil {
			common.HandleError(hc, err, "get professional")
			return
		}

		text, kb := common.BuildDayDatesScreen(pro, h.Today(), callbacktypes.BookingDays)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show dates", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleDayDate рисует день специалиста и отправляет картинкой
func HandleDayDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithContext(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if hc.Message == nil {
			common.HandleError(hc, common.ErrNoMessage, "day image")
			return
		}

		proID, rawDate, err := common.ParseIDAndArg(callback.Data, common.DayDate)
		if err != nil {
			common.HandleError(hc, err, "parse day")
			return
		}
		date, err := h.Availability.ParseDate(rawDate)
		if err != nil {
			common.HandleError(hc, err, "parse day")
			return
		}
		pro, err := h.Professionals.Get(ctx, proID)
		if err != nil {
			common.HandleError(hc, err, "get professional")
			return
		}

		// свободные слоты считаем для самой короткой услуги
		svc, err := shortestService(ctx, h)
		if err != nil {
			if errors.Is(err, errNoServices) {
				hc.AnswerAlert("😔 Нет доступных услуг")
				return
			}
			common.HandleError(hc, err, "list services")
			return
		}

		day, err := h.Availability.DaySchedule(ctx, pro.ID, svc.ID, date)
		if err != nil {
			common.HandleError(hc, err, "day schedule")
			return
		}

		image, err := common.GenerateDayImage(day, pro.Name, h.Now())
		if err != nil {
			common.HandleError(hc, err, "render day")
			return
		}

		caption := fmt.Sprintf(
			"🗓 <b>%s</b>, %s %s\n💼 Слоты для услуги «%s» (%s)",
			html.EscapeString(pro.Name),
			formatting.GetWeekdayName(int(day.Date.Weekday())),
			formatting.FormatDate(day.Date),
			html.EscapeString(svc.Name),
			formatting.FormatDuration(svc.DurationMinutes),
		)
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("📝 Записаться", fmt.Sprintf("%s%d", common.BookProfessional, pro.ID))).
			AddBackButton(fmt.Sprintf("%s%d", common.DayProfessional, pro.ID)).
			Build()

		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      hc.ChatID,
			Photo:       &models.InputFileUpload{Filename: "day.png", Data: bytes.NewReader(image)},
			Caption:     caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
		if err != nil {
			common.HandleError(hc, err, "send day image")
			return
		}

		// Удаляем старое сообщение с кнопками
		if err := hc.DeleteMessage(); err != nil {
			h.Logger.Warn("Failed to delete message", zap.Error(err))
		}
		hc.Answer("")
	})
}

func shortestService(ctx context.Context, h *callbacktypes.Handler) (*model.Service, error) {
	services, err := h.Catalog.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return pickShortest(services)
}

func pickShortest(services []*model.Service) (*model.Service, error) {
	var best *model.Service
	for _, s := range services {
		if !s.IsActive {
			continue
		}
		if best == nil || s.DurationMinutes < best.DurationMinutes {
			best = s
		}
	}
	if best == nil {
		return nil, errNoServices
	}
	return best, nil
}
