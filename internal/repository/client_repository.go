package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, name, phone, email, telegram_id, created_at`

// Create создаёт нового клиента
func (r *ClientRepository) Create(ctx context.Context, c *model.Client) error {
	query := `
		INSERT INTO clients (name, phone, email, telegram_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, c.Name, c.Phone, c.Email, c.TelegramID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

// UpsertByTelegramID создаёт клиента из Telegram или обновляет имя существующего
func (r *ClientRepository) UpsertByTelegramID(ctx context.Context, telegramID int64, name string) (*model.Client, error) {
	query := `
		INSERT INTO clients (name, telegram_id)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + clientColumns

	c, err := scanClient(r.pool.QueryRow(ctx, query, name, telegramID))
	if err != nil {
		return nil, fmt.Errorf("upsert client by telegram id: %w", err)
	}

	return c, nil
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}

	return c, nil
}

// GetByTelegramID получает клиента по Telegram ID
func (r *ClientRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE telegram_id = $1`

	c, err := scanClient(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Клиент не найден
		}
		return nil, fmt.Errorf("get client by telegram id: %w", err)
	}

	return c, nil
}

func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TelegramID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
