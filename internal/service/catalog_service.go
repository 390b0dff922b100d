package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"go.uber.org/zap"
)

// CatalogService каталог услуг
type CatalogService struct {
	services ServiceStore
	logger   *zap.Logger
}

func NewCatalogService(services ServiceStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{services: services, logger: logger}
}

// CreateService создаёт услугу
func (s *CatalogService) CreateService(ctx context.Context, name string, durationMinutes, priceCents int) (*model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("service name is required")
	}
	if durationMinutes < model.MinServiceDuration || durationMinutes > model.MaxServiceDuration {
		return nil, invalidInput("duration must be between %d and %d minutes", model.MinServiceDuration, model.MaxServiceDuration)
	}
	if priceCents < 0 {
		return nil, invalidInput("price must not be negative")
	}

	svc := &model.Service{
		Name:            name,
		DurationMinutes: durationMinutes,
		PriceCents:      priceCents,
		IsActive:        true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("Service created",
		zap.Int64("service_id", svc.ID),
		zap.String("name", svc.Name),
		zap.Int("duration_minutes", svc.DurationMinutes),
	)
	return svc, nil
}

// GetService получает услугу по ID
func (s *CatalogService) GetService(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// ListServices активные услуги
func (s *CatalogService) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.services.ListActive(ctx)
}

// GetServiceDuration длительность услуги. На неактивную услугу записаться
// нельзя, для неё ErrServiceNotFound.
func (s *CatalogService) GetServiceDuration(ctx context.Context, serviceID int64) (time.Duration, error) {
	svc, err := s.GetService(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	if !svc.IsActive {
		return 0, ErrServiceNotFound
	}
	return svc.Duration(), nil
}
