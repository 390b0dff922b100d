// Package rest HTTP API планировщика на gin.
package rest

import (
	"context"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
)

// Сервисы, которые использует API

type AvailabilityAPI interface {
	ParseDate(raw string) (time.Time, error)
	Location() *time.Location
	ComputeAvailableSlots(ctx context.Context, professionalID, serviceID int64, date time.Time) ([]string, error)
	IsSlotAvailable(ctx context.Context, professionalID int64, date time.Time, startTime string, durationMinutes int) (bool, error)
}

type AppointmentAPI interface {
	Create(ctx context.Context, in service.CreateAppointmentInput, now time.Time) (*model.Appointment, error)
	Reschedule(ctx context.Context, id int64, in service.RescheduleInput, now time.Time) (*model.Appointment, error)
	Transition(ctx context.Context, id int64, status model.AppointmentStatus, reason string, now time.Time) (*model.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string, now time.Time) (*model.Appointment, error)
	Get(ctx context.Context, id int64) (*model.Appointment, error)
	ListForProfessional(ctx context.Context, professionalID int64, date time.Time) ([]*model.Appointment, error)
	ListForClient(ctx context.Context, clientID int64, now time.Time) ([]*model.Appointment, error)
}

type ProfessionalAPI interface {
	Create(ctx context.Context, name string) (*model.Professional, error)
	Get(ctx context.Context, id int64) (*model.Professional, error)
	ListActive(ctx context.Context) ([]*model.Professional, error)
	SetWorkingHours(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) error
	GetWorkingHoursEntries(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, error)
	AddVacation(ctx context.Context, in service.VacationInput) (*model.Vacation, []*model.Appointment, error)
	DeleteVacation(ctx context.Context, id int64) error
	ListVacations(ctx context.Context, professionalID int64, from time.Time) ([]*model.Vacation, error)
}

type CatalogAPI interface {
	CreateService(ctx context.Context, name string, durationMinutes, priceCents int) (*model.Service, error)
	GetService(ctx context.Context, id int64) (*model.Service, error)
	ListServices(ctx context.Context) ([]*model.Service, error)
}

type ClientAPI interface {
	Create(ctx context.Context, name, phone, email string) (*model.Client, error)
	Get(ctx context.Context, id int64) (*model.Client, error)
}

// Pinger зависимость, проверяемая в /readyz
type Pinger interface {
	Ping(ctx context.Context) error
}
