package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/cache"
	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"go.uber.org/zap"
)

type ProfessionalService struct {
	professionals ProfessionalStore
	workingHours  WorkingHoursStore
	vacations     VacationStore
	booking       BookingStore
	cache         *cache.WorkingHoursCache
	logger        *zap.Logger
}

func NewProfessionalService(
	professionals ProfessionalStore,
	workingHours WorkingHoursStore,
	vacations VacationStore,
	booking BookingStore,
	hoursCache *cache.WorkingHoursCache,
	logger *zap.Logger,
) *ProfessionalService {
	return &ProfessionalService{
		professionals: professionals,
		workingHours:  workingHours,
		vacations:     vacations,
		booking:       booking,
		cache:         hoursCache,
		logger:        logger,
	}
}

// Create создаёт специалиста
func (s *ProfessionalService) Create(ctx context.Context, name string) (*model.Professional, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("professional name is required")
	}

	p := &model.Professional{Name: name, IsActive: true}
	if err := s.professionals.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create professional: %w", err)
	}

	s.logger.Info("Professional created", zap.Int64("professional_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// Get получает специалиста по ID
func (s *ProfessionalService) Get(ctx context.Context, id int64) (*model.Professional, error) {
	p, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get professional: %w", err)
	}
	if p == nil {
		return nil, ErrProfessionalNotFound
	}
	return p, nil
}

// ListActive все активные специалисты
func (s *ProfessionalService) ListActive(ctx context.Context) ([]*model.Professional, error) {
	return s.professionals.ListActive(ctx)
}

// SetWorkingHours заменяет недельное расписание специалиста
func (s *ProfessionalService) SetWorkingHours(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) error {
	if _, err := s.Get(ctx, professionalID); err != nil {
		return err
	}

	hours, err := repository.ToWorkingHours(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := hours.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.workingHours.Replace(ctx, professionalID, normalizeEntries(professionalID, hours)); err != nil {
		return fmt.Errorf("replace working hours: %w", err)
	}

	if err := s.cache.Invalidate(ctx, professionalID); err != nil {
		s.logger.Error("Failed to invalidate working hours cache",
			zap.Int64("professional_id", professionalID),
			zap.Error(err),
		)
	}

	return nil
}

// GetWorkingHoursEntries расписание специалиста (сначала из кэша)
func (s *ProfessionalService) GetWorkingHoursEntries(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, error) {
	if entries, ok := s.cache.Get(ctx, professionalID); ok {
		return entries, nil
	}

	if _, err := s.Get(ctx, professionalID); err != nil {
		return nil, err
	}

	entries, err := s.workingHours.GetByProfessionalID(ctx, professionalID)
	if err != nil {
		return nil, fmt.Errorf("get working hours: %w", err)
	}
	if entries == nil {
		entries = []*model.WorkingHoursEntry{}
	}

	s.cache.Set(ctx, professionalID, entries)
	return entries, nil
}

// GetWorkingHours расписание в виде, пригодном для движка слотов.
// У неактивного специалиста записи нет: ErrProfessionalNotFound.
func (s *ProfessionalService) GetWorkingHours(ctx context.Context, professionalID int64) (slots.WorkingHours, error) {
	p, err := s.Get(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrProfessionalNotFound
	}

	entries, err := s.GetWorkingHoursEntries(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	return repository.ToWorkingHours(entries)
}

// VacationInput параметры нового отпуска
type VacationInput struct {
	ProfessionalID int64
	StartsAt       time.Time
	EndsAt         time.Time
	Reason         string
}

// AddVacation добавляет отпуск. Уже существующие записи внутри отпуска
// не отменяются, они возвращаются вторым значением для переноса.
func (s *ProfessionalService) AddVacation(ctx context.Context, in VacationInput) (*model.Vacation, []*model.Appointment, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, nil, invalidInput("vacation must end after it starts")
	}
	if _, err := s.Get(ctx, in.ProfessionalID); err != nil {
		return nil, nil, err
	}

	v := &model.Vacation{
		ProfessionalID: in.ProfessionalID,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
		Reason:         strings.TrimSpace(in.Reason),
	}

	var affected []*model.Appointment
	err := s.booking.Atomically(ctx, []int64{in.ProfessionalID}, func(ctx context.Context, tx repository.BookingTx) error {
		if err := tx.CreateVacation(ctx, v); err != nil {
			return err
		}
		var err error
		affected, err = tx.ActiveAppointments(ctx, in.ProfessionalID, slots.Interval{Start: v.StartsAt, End: v.EndsAt})
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("add vacation: %w", err)
	}

	s.logger.Info("Vacation added",
		zap.Int64("professional_id", in.ProfessionalID),
		zap.Int64("vacation_id", v.ID),
		zap.Time("starts_at", v.StartsAt),
		zap.Time("ends_at", v.EndsAt),
		zap.Int("affected_appointments", len(affected)),
	)

	return v, affected, nil
}

// DeleteVacation удаляет отпуск
func (s *ProfessionalService) DeleteVacation(ctx context.Context, id int64) error {
	deleted, err := s.vacations.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete vacation: %w", err)
	}
	if !deleted {
		return ErrVacationNotFound
	}

	s.logger.Info("Vacation deleted", zap.Int64("vacation_id", id))
	return nil
}

// ListVacations отпуска специалиста, которые ещё не закончились к from
func (s *ProfessionalService) ListVacations(ctx context.Context, professionalID int64, from time.Time) ([]*model.Vacation, error) {
	if _, err := s.Get(ctx, professionalID); err != nil {
		return nil, err
	}
	return s.vacations.ListByProfessional(ctx, professionalID, from)
}

// normalizeEntries записи расписания в каноническом виде: по дням, по времени
func normalizeEntries(professionalID int64, hours slots.WorkingHours) []*model.WorkingHoursEntry {
	var entries []*model.WorkingHoursEntry
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, shift := range hours.For(day) {
			entries = append(entries, &model.WorkingHoursEntry{
				ProfessionalID: professionalID,
				Weekday:        day,
				StartTime:      shift.Start.String(),
				EndTime:        shift.End.String(),
			})
		}
	}
	return entries
}
