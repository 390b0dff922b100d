package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"go.uber.org/zap"
)

type ClientService struct {
	clients ClientStore
	logger  *zap.Logger
}

func NewClientService(clients ClientStore, logger *zap.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		logger:  logger,
	}
}

// Create создаёт клиента
func (s *ClientService) Create(ctx context.Context, name, phone, email string) (*model.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("client name is required")
	}

	c := &model.Client{
		Name:  name,
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info("Client created", zap.Int64("client_id", c.ID))
	return c, nil
}

// RegisterTelegram регистрирует клиента из бота или обновляет имя существующего
func (s *ClientService) RegisterTelegram(ctx context.Context, telegramID int64, name string) (*model.Client, error) {
	existing, err := s.clients.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing client: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("tg:%d", telegramID)
	}

	client, err := s.clients.UpsertByTelegramID(ctx, telegramID, name)
	if err != nil {
		return nil, fmt.Errorf("register client: %w", err)
	}

	if existing == nil {
		s.logger.Info("New client registered",
			zap.Int64("client_id", client.ID),
			zap.Int64("telegram_id", telegramID),
		)
	}

	return client, nil
}

// Get получает клиента по ID
func (s *ClientService) Get(ctx context.Context, id int64) (*model.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	return c, nil
}

// GetByTelegramID клиент по Telegram ID; nil, если не зарегистрирован
func (s *ClientService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Client, error) {
	return s.clients.GetByTelegramID(ctx, telegramID)
}
