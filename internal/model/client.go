package model

import "time"

type Client struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	TelegramID *int64    `json:"telegram_id,omitempty"` // nil - клиент заведён не через бота
	CreatedAt  time.Time `json:"created_at"`
}
