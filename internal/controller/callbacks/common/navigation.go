package common

import (
	"context"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MainMenuText текст главного меню
const MainMenuText = "📋 Главное меню\n\n" +
	"/book - Записаться\n" +
	"/mybookings - Мои записи\n" +
	"/day - Расписание специалиста на день\n" +
	"/help - Справка"

// MainMenuKeyboard кнопки главного меню
func MainMenuKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("📝 Записаться", BookStart)).
		Row(keyboard.Button("📅 Мои записи", MyAppointments)).
		Row(keyboard.Button("🗓 Расписание дня", DayStart)).
		Build()
}

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithContext(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()
		if err := hc.EditMessage(MainMenuText, MainMenuKeyboard()); err != nil {
			h.Logger.Error("Failed to show main menu", zap.Error(err))
		}
		hc.Answer("")
	})
}
