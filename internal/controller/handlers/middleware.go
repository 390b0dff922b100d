package handlers

import (
	"context"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireClient находит клиента по Telegram аккаунту.
// Возвращает client и true если OK, nil и false если нет (ответ уже отправлен).
func (h *Handlers) requireClient(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Client, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	client, err := h.Clients.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.Logger.Error("Failed to get client", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if client == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вы не зарегистрированы. Используйте /start для регистрации.")
		return nil, false
	}

	return client, true
}
