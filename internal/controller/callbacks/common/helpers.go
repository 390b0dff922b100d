package common

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseArgs аргументы после префикса: "day_date:7:2026-10-19" -> ["7", "2026-10-19"].
// Количество аргументов должно совпасть с n.
func ParseArgs(data, prefix string, n int) ([]string, error) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	args := strings.Split(rest, ":")
	if len(args) != n || slices.Contains(args, "") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return args, nil
}

// ParseIDFromCallback извлекает ID из callback data
// Например: "cancel_appt:123" -> 123
func ParseIDFromCallback(data, prefix string) (int64, error) {
	args, err := ParseArgs(data, prefix, 1)
	if err != nil {
		return 0, err
	}
	return parseID(args[0])
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", ErrInvalidFormat, raw)
	}
	return id, nil
}

// ParseIDAndArg "prefix<id>:<arg>"
func ParseIDAndArg(data, prefix string) (int64, string, error) {
	args, err := ParseArgs(data, prefix, 2)
	if err != nil {
		return 0, "", err
	}
	id, err := parseID(args[0])
	if err != nil {
		return 0, "", err
	}
	return id, args[1], nil
}

// IsMessageNotModifiedError Telegram отвечает ошибкой, если текст и клавиатура не изменились
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
