package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/events"
	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"go.uber.org/zap"
)

type AppointmentService struct {
	clients       ClientStore
	professionals ProfessionalStore
	services      ServiceStore
	appointments  AppointmentStore
	booking       BookingStore
	hours         WorkingHoursProvider
	availability  *AvailabilityService
	logger        *zap.Logger
}

func NewAppointmentService(
	clients ClientStore,
	professionals ProfessionalStore,
	services ServiceStore,
	appointments AppointmentStore,
	booking BookingStore,
	hours WorkingHoursProvider,
	availability *AvailabilityService,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		clients:       clients,
		professionals: professionals,
		services:      services,
		appointments:  appointments,
		booking:       booking,
		hours:         hours,
		availability:  availability,
		logger:        logger,
	}
}

// CreateAppointmentInput запрос на запись. Date и StartTime - в часовом
// поясе расписания.
type CreateAppointmentInput struct {
	ProfessionalID int64  `json:"professional_id"`
	ClientID       int64  `json:"client_id"`
	ServiceID      int64  `json:"service_id"`
	Date           string `json:"date"`       // YYYY-MM-DD
	StartTime      string `json:"start_time"` // HH:MM
	Notes          string `json:"notes"`
}

// RescheduleInput изменение записи. Пустые поля не меняются.
type RescheduleInput struct {
	ProfessionalID *int64  `json:"professional_id"`
	ServiceID      *int64  `json:"service_id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	Notes          *string `json:"notes"`
}

// Create записывает клиента. Свободность времени проверяется под
// блокировкой календаря специалиста, конфликт - *SlotConflictError.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput, now time.Time) (*model.Appointment, error) {
	day, start, err := s.parseWhen(in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if _, err := s.activeProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}
	svc, err := s.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	a := &model.Appointment{
		ProfessionalID: in.ProfessionalID,
		ClientID:       in.ClientID,
		ServiceID:      svc.ID,
		Status:         model.AppointmentStatusScheduled,
		PriceCents:     svc.PriceCents,
		Notes:          strings.TrimSpace(in.Notes),
	}
	if err := s.place(a, day, start, svc.Duration()); err != nil {
		return nil, err
	}
	if a.StartsAt.Before(now) {
		return nil, ErrPastBooking
	}

	// Быстрый отказ без транзакции; окончательная проверка ниже
	if err := s.availability.check(ctx, a.ProfessionalID, day, start, svc.Duration()); err != nil {
		return nil, err
	}

	err = s.booking.Atomically(ctx, []int64{a.ProfessionalID}, func(ctx context.Context, tx repository.BookingTx) error {
		if err := s.guard(ctx, tx, a, day, start, 0); err != nil {
			return err
		}
		if err := tx.CreateAppointment(ctx, a); err != nil {
			return s.overlapError(a, err)
		}
		return s.addEvent(ctx, tx, model.EventAppointmentBooked, a, nil)
	})
	if err != nil {
		return nil, s.logConflict("create appointment", a, err)
	}

	a.Service = svc
	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("professional_id", a.ProfessionalID),
		zap.Int64("client_id", a.ClientID),
		zap.Time("starts_at", a.StartsAt),
		zap.Time("ends_at", a.EndsAt),
	)

	return a, nil
}

// rescheduleAttempts сколько раз перечитывать запись, если её успели
// перенести к другому специалисту до взятия блокировки
const rescheduleAttempts = 3

// errCalendarMoved запись сменила специалиста между чтением и блокировкой
var errCalendarMoved = errors.New("appointment moved to another calendar")

// Reschedule переносит запись: другое время, специалист или услуга.
// Сама запись при проверке не считается занятостью. Незаданные поля
// берутся из записи, перечитанной под блокировкой.
func (s *AppointmentService) Reschedule(ctx context.Context, id int64, in RescheduleInput, now time.Time) (*model.Appointment, error) {
	if in.ProfessionalID != nil {
		if _, err := s.activeProfessional(ctx, *in.ProfessionalID); err != nil {
			return nil, err
		}
	}

	for attempt := 1; ; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		lock := []int64{current.ProfessionalID}
		if in.ProfessionalID != nil {
			lock = append(lock, *in.ProfessionalID)
		}

		updated, err := s.reschedule(ctx, id, in, now, lock)
		if errors.Is(err, errCalendarMoved) && attempt < rescheduleAttempts {
			s.logger.Debug("Appointment moved concurrently, retrying reschedule",
				zap.Int64("appointment_id", id),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return updated, err
	}
}

func (s *AppointmentService) reschedule(ctx context.Context, id int64, in RescheduleInput, now time.Time, lock []int64) (*model.Appointment, error) {
	var (
		updated *model.Appointment
		target  = &model.Appointment{ID: id}
	)
	err := s.booking.Atomically(ctx, lock, func(ctx context.Context, tx repository.BookingTx) error {
		a, err := tx.GetAppointment(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}
		if !slices.Contains(lock, a.ProfessionalID) {
			return errCalendarMoved
		}
		if !canReschedule(a.Status) {
			return fmt.Errorf("%w: cannot reschedule %s appointment", ErrInvalidTransition, a.Status)
		}

		professionalID := a.ProfessionalID
		if in.ProfessionalID != nil {
			professionalID = *in.ProfessionalID
		}
		serviceID := a.ServiceID
		if in.ServiceID != nil {
			serviceID = *in.ServiceID
		}
		svc, err := s.activeService(ctx, serviceID)
		if err != nil {
			return err
		}

		loc := s.availability.Location()
		date, startTime := in.Date, in.StartTime
		if date == "" {
			date = a.StartsAt.In(loc).Format(DateLayout)
		}
		if startTime == "" {
			startTime = slots.ClockOf(a.StartsAt.In(loc)).String()
		}
		day, start, err := s.parseWhen(date, startTime)
		if err != nil {
			return err
		}

		previousStart := a.StartsAt
		a.ProfessionalID = professionalID
		a.ServiceID = svc.ID
		a.PriceCents = svc.PriceCents
		if in.Notes != nil {
			a.Notes = strings.TrimSpace(*in.Notes)
		}
		if err := s.place(a, day, start, svc.Duration()); err != nil {
			return err
		}
		target = a
		if a.StartsAt.Before(now) {
			return ErrPastBooking
		}

		if err := s.guard(ctx, tx, a, day, start, a.ID); err != nil {
			return err
		}
		if err := tx.UpdateAppointmentSlot(ctx, a); err != nil {
			return s.overlapError(a, err)
		}
		a.Service = svc
		updated = a
		return s.addEvent(ctx, tx, model.EventAppointmentRescheduled, a, func(p *events.AppointmentPayload) {
			p.PreviousStart = &previousStart
		})
	})
	if err != nil {
		if errors.Is(err, errCalendarMoved) {
			return nil, err
		}
		return nil, s.logConflict("reschedule appointment", target, err)
	}

	s.logger.Info("Appointment rescheduled",
		zap.Int64("appointment_id", updated.ID),
		zap.Int64("professional_id", updated.ProfessionalID),
		zap.Time("starts_at", updated.StartsAt),
	)

	return updated, nil
}

// Transition меняет статус записи по допустимому переходу.
// Отмена освобождает время сразу после коммита.
func (s *AppointmentService) Transition(ctx context.Context, id int64, status model.AppointmentStatus, reason string, now time.Time) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, invalidInput("unknown status %q", status)
	}

	var updated *model.Appointment
	err := s.booking.Atomically(ctx, nil, func(ctx context.Context, tx repository.BookingTx) error {
		a, err := tx.GetAppointment(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}
		if !a.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, status)
		}

		previous := a.Status
		a.Status = status
		if status == model.AppointmentStatusCancelled {
			cancelledAt := now
			a.CancelledAt = &cancelledAt
			a.CancelReason = strings.TrimSpace(reason)
		}
		if err := tx.UpdateAppointmentStatus(ctx, a); err != nil {
			return err
		}
		updated = a
		return s.addEvent(ctx, tx, model.EventAppointmentStatusChanged, a, func(p *events.AppointmentPayload) {
			p.PreviousStatus = previous
			p.Reason = a.CancelReason
		})
	})
	if err != nil {
		return nil, fmt.Errorf("change appointment status: %w", err)
	}

	s.logger.Info("Appointment status changed",
		zap.Int64("appointment_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Cancel отменяет запись
func (s *AppointmentService) Cancel(ctx context.Context, id int64, reason string, now time.Time) (*model.Appointment, error) {
	return s.Transition(ctx, id, model.AppointmentStatusCancelled, reason, now)
}

// Get получает запись по ID вместе с услугой
func (s *AppointmentService) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := s.attachServices(ctx, []*model.Appointment{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// ListForProfessional записи специалиста на дату, включая отменённые
func (s *AppointmentService) ListForProfessional(ctx context.Context, professionalID int64, date time.Time) ([]*model.Appointment, error) {
	if _, err := s.activeProfessional(ctx, professionalID); err != nil {
		return nil, err
	}

	day := slots.DayBounds(s.availability.Day(date))
	list, err := s.appointments.ListByProfessional(ctx, professionalID, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, s.attachServices(ctx, list)
}

// ListForClient предстоящие записи клиента
func (s *AppointmentService) ListForClient(ctx context.Context, clientID int64, now time.Time) ([]*model.Appointment, error) {
	list, err := s.appointments.ListByClient(ctx, clientID, now)
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	return list, s.attachServices(ctx, list)
}

// MarkNoShows переводит в NO_SHOW записи, закончившиеся раньше now-grace
// и так и не начатые. grace <= 0 выключает обработку.
func (s *AppointmentService) MarkNoShows(ctx context.Context, now time.Time, grace time.Duration) (int, error) {
	if grace <= 0 {
		return 0, nil
	}

	var marked []*model.Appointment
	err := s.booking.Atomically(ctx, nil, func(ctx context.Context, tx repository.BookingTx) error {
		var err error
		marked, err = tx.MarkNoShows(ctx, now.Add(-grace))
		if err != nil {
			return err
		}
		for _, a := range marked {
			if err := s.addEvent(ctx, tx, model.EventAppointmentStatusChanged, a, func(p *events.AppointmentPayload) {
				p.Reason = "no_show"
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("mark no-shows: %w", err)
	}

	if len(marked) > 0 {
		s.logger.Info("Appointments marked as no-show", zap.Int("count", len(marked)))
	}
	return len(marked), nil
}

// guard окончательная проверка внутри транзакции: занятость читается
// после взятия блокировки
func (s *AppointmentService) guard(ctx context.Context, tx repository.BookingTx, a *model.Appointment, day time.Time, start slots.Clock, excludeID int64) error {
	hours, err := s.hours.GetWorkingHours(ctx, a.ProfessionalID)
	if err != nil {
		return err
	}

	window := slots.Interval{Start: a.StartsAt, End: a.EndsAt}
	busy, err := tx.Commitments(ctx, a.ProfessionalID, window, excludeID)
	if err != nil {
		return err
	}

	return conflictError(a.ProfessionalID, window, s.availability.Engine().Check(hours, day, start, a.Duration(), busy))
}

// place ставит запись на [start, start+duration) в день day. Времени,
// пропущенного при переводе часов, в этот день нет: это конфликт со сменой.
func (s *AppointmentService) place(a *model.Appointment, day time.Time, start slots.Clock, duration time.Duration) error {
	window, ok := start.Window(day, duration)
	if !ok {
		return &SlotConflictError{
			ProfessionalID: a.ProfessionalID,
			Start:          start.On(day),
			End:            start.On(day).Add(duration),
			Reason:         slots.ReasonOutsideShift,
		}
	}
	a.StartsAt, a.EndsAt = window.Start, window.End
	return nil
}

func (s *AppointmentService) overlapError(a *model.Appointment, err error) error {
	if errors.Is(err, repository.ErrOverlap) {
		return &SlotConflictError{
			ProfessionalID: a.ProfessionalID,
			Start:          a.StartsAt,
			End:            a.EndsAt,
			Reason:         slots.ReasonAppointmentOverlap,
			Concurrent:     true,
		}
	}
	return err
}

func (s *AppointmentService) logConflict(op string, a *model.Appointment, err error) error {
	var conflict *SlotConflictError
	if errors.As(err, &conflict) {
		s.logger.Info("Slot conflict",
			zap.String("op", op),
			zap.Int64("professional_id", conflict.ProfessionalID),
			zap.Time("starts_at", conflict.Start),
			zap.String("reason", string(conflict.Reason)),
			zap.Bool("concurrent", conflict.Concurrent),
		)
		return err
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPastBooking) || errors.Is(err, ErrInvalidTransition) {
		return err
	}
	s.logger.Error("Booking transaction failed",
		zap.String("op", op),
		zap.Int64("professional_id", a.ProfessionalID),
		zap.Error(err),
	)
	return fmt.Errorf("%s: %w", op, err)
}

func (s *AppointmentService) addEvent(ctx context.Context, tx repository.BookingTx, eventType string, a *model.Appointment, mutate func(p *events.AppointmentPayload)) error {
	e, err := events.NewAppointmentEvent(eventType, a, mutate)
	if err != nil {
		return err
	}
	return tx.AddEvent(ctx, e)
}

func (s *AppointmentService) parseWhen(date, startTime string) (time.Time, slots.Clock, error) {
	day, err := s.availability.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, err
	}
	start, err := slots.ParseClock(startTime)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if start == slots.EndOfDay {
		return time.Time{}, 0, invalidInput("appointment cannot start at 24:00")
	}
	return day, start, nil
}

func (s *AppointmentService) activeProfessional(ctx context.Context, id int64) (*model.Professional, error) {
	p, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get professional: %w", err)
	}
	if p == nil || !p.IsActive {
		return nil, ErrProfessionalNotFound
	}
	return p, nil
}

func (s *AppointmentService) activeService(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc == nil || !svc.IsActive {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// attachServices подставляет услугу в каждую запись
func (s *AppointmentService) attachServices(ctx context.Context, list []*model.Appointment) error {
	byID := make(map[int64]*model.Service)
	for _, a := range list {
		svc, ok := byID[a.ServiceID]
		if !ok {
			var err error
			svc, err = s.services.GetByID(ctx, a.ServiceID)
			if err != nil {
				return fmt.Errorf("get service: %w", err)
			}
			byID[a.ServiceID] = svc
		}
		a.Service = svc
	}
	return nil
}

func canReschedule(status model.AppointmentStatus) bool {
	return status == model.AppointmentStatusScheduled || status == model.AppointmentStatusConfirmed
}
