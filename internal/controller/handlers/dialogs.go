package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текст вне команд в зависимости от состояния диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if strings.HasPrefix(text, "/") {
		h.sendError(ctx, b, chatID, "❓ Неизвестная команда. Список команд: /help")
		return
	}

	switch h.StateManager.GetState(telegramID) {
	case state.StateBookingNotes:
		h.handleNotes(ctx, b, telegramID, chatID, text)
	case state.StateNone:
		h.sendError(ctx, b, chatID, "🤔 Не понимаю. Список команд: /help")
	default:
		h.sendError(ctx, b, chatID, "👆 Выберите вариант кнопками выше или прервите запись: /cancel")
	}
}

func (h *Handlers) handleNotes(ctx context.Context, b *bot.Bot, telegramID, chatID int64, text string) {
	notes, ok := normalizeNotes(text)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ Комментарий должен быть от 1 до 500 символов. Попробуйте ещё раз.")
		return
	}

	draft, exists := h.StateManager.Draft(telegramID)
	if !exists || !draft.Complete() {
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrSessionExpired))
		return
	}

	h.StateManager.SetData(telegramID, state.KeyNotes, notes)
	h.StateManager.SetState(telegramID, state.StateBookingConfirm)
	draft.Notes = notes

	if err := booking.ShowConfirmMessage(ctx, b, chatID, h.Handler, draft); err != nil {
		h.Logger.Error("Failed to show booking confirmation", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
	}
}

// normalizeNotes обрезает пробелы и проверяет длину комментария
func normalizeNotes(text string) (string, bool) {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	return text, n > 0 && n <= maxNotesLength
}
