package controller

import (
	"context"

	"github.com/Freeeeeet/appointment_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller/state"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BotController Telegram интерфейс клиента: запись, отмена, картинка дня
type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	appointments *service.AppointmentService,
	availability *service.AvailabilityService,
	professionals *service.ProfessionalService,
	catalog *service.CatalogService,
	clients *service.ClientService,
	logger *zap.Logger,
) *BotController {
	// Команды и callbacks делят один менеджер состояний
	callbackHandler := callbacks.NewHandler(
		appointments,
		availability,
		professionals,
		catalog,
		clients,
		state.NewManager(),
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(callbackHandler.Handler),
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/day", bot.MatchTypeExact, c.handlers.HandleDay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "book", Description: "📝 Записаться"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "day", Description: "🗓 Расписание специалиста на день"},
		{Command: "cancel", Description: "❌ Прервать текущее действие"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает long polling, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
