package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart регистрирует клиента по Telegram аккаунту
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	client, err := h.Clients.RegisterTelegram(ctx, from.ID, displayName(from))
	if err != nil {
		h.Logger.Error("Failed to register client", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n\nЗдесь можно записаться к специалисту на удобное время.\n\n%s",
		html.EscapeString(client.Name),
		common.MainMenuText,
	)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, common.MainMenuKeyboard())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Регистрация\n" +
		"/book - Записаться: специалист, услуга, дата и время\n" +
		"/mybookings - Предстоящие записи и их отмена\n" +
		"/day - Картинка дня специалиста со свободным временем\n" +
		"/cancel - Прервать текущее действие\n" +
		"/help - Показать эту справку"

	h.sendScreen(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleBook начинает диалог записи
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireClient(ctx, b, update); !ok {
		return
	}

	h.StateManager.StartBooking(update.Message.From.ID)

	pros, err := h.Professionals.ListActive(ctx)
	if err != nil {
		h.Logger.Error("Failed to list professionals", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildProfessionalsScreen(pros)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMyBookings предстоящие записи клиента
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	client, ok := h.requireClient(ctx, b, update)
	if !ok {
		return
	}

	list, err := h.Appointments.ListForClient(ctx, client.ID, h.Now())
	if err != nil {
		h.Logger.Error("Failed to list client appointments", zap.Int64("client_id", client.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildMyAppointmentsScreen(list)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleDay выбор специалиста для картинки дня
func (h *Handlers) HandleDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	pros, err := h.Professionals.ListActive(ctx)
	if err != nil {
		h.Logger.Error("Failed to list professionals", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildDayProfessionalsScreen(pros)
	h.sendScreen(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleCancel прерывает текущий диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.StateManager.ClearState(update.Message.From.ID)
	h.sendScreen(ctx, b, update.Message.Chat.ID, "❌ Действие отменено.\n\n"+common.MainMenuText, common.MainMenuKeyboard())
}

// displayName имя клиента из профиля Telegram
func displayName(u *models.User) string {
	name := strings.TrimSpace(strings.Join([]string{u.FirstName, u.LastName}, " "))
	if name == "" {
		name = u.Username
	}
	if name == "" {
		name = fmt.Sprintf("telegram:%d", u.ID)
	}
	return name
}
