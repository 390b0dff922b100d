package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
)

// WorkingHoursProvider недельное расписание специалиста.
// Неизвестный специалист - ErrProfessionalNotFound.
type WorkingHoursProvider interface {
	GetWorkingHours(ctx context.Context, professionalID int64) (slots.WorkingHours, error)
}

// DurationProvider длительность услуги. Неизвестная услуга - ErrServiceNotFound.
type DurationProvider interface {
	GetServiceDuration(ctx context.Context, serviceID int64) (time.Duration, error)
}

// CommitmentProvider активные записи и отпуска специалиста в [from, to)
type CommitmentProvider interface {
	GetCommitments(ctx context.Context, professionalID int64, from, to time.Time) (slots.Commitments, error)
}

type ProfessionalStore interface {
	Create(ctx context.Context, p *model.Professional) error
	GetByID(ctx context.Context, id int64) (*model.Professional, error)
	ListActive(ctx context.Context) ([]*model.Professional, error)
}

type WorkingHoursStore interface {
	GetByProfessionalID(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, error)
	Replace(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) error
}

type VacationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Vacation, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByProfessional(ctx context.Context, professionalID int64, from time.Time) ([]*model.Vacation, error)
}

type ServiceStore interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	ListActive(ctx context.Context) ([]*model.Service, error)
}

type ClientStore interface {
	Create(ctx context.Context, c *model.Client) error
	UpsertByTelegramID(ctx context.Context, telegramID int64, name string) (*model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Client, error)
}

type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	ListByProfessional(ctx context.Context, professionalID int64, from, to time.Time) ([]*model.Appointment, error)
	ListByClient(ctx context.Context, clientID int64, from time.Time) ([]*model.Appointment, error)
}

// BookingStore транзакции над календарями специалистов,
// сериализованные по каждому специалисту
type BookingStore interface {
	Atomically(ctx context.Context, professionalIDs []int64, fn func(ctx context.Context, tx repository.BookingTx) error) error
}
