package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DateLayout формат даты в API и в боте
const DateLayout = "2006-01-02"

// AvailabilityService расчёт свободного времени специалиста.
// Все данные каждый раз читаются заново: ответ отражает состояние
// календаря на момент запроса.
type AvailabilityService struct {
	hours       WorkingHoursProvider
	durations   DurationProvider
	commitments CommitmentProvider
	engine      *slots.Engine
	loc         *time.Location
	logger      *zap.Logger
}

func NewAvailabilityService(
	hours WorkingHoursProvider,
	durations DurationProvider,
	commitments CommitmentProvider,
	engine *slots.Engine,
	loc *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{
		hours:       hours,
		durations:   durations,
		commitments: commitments,
		engine:      engine,
		loc:         loc,
		logger:      logger,
	}
}

// Location часовой пояс, в котором заданы смены и даты
func (s *AvailabilityService) Location() *time.Location {
	return s.loc
}

// Engine движок слотов
func (s *AvailabilityService) Engine() *slots.Engine {
	return s.engine
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе расписания
func (s *AvailabilityService) ParseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, invalidInput("date %q must be YYYY-MM-DD", raw)
	}
	return date, nil
}

// Day полночь даты t в часовом поясе расписания
func (s *AvailabilityService) Day(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// DaySchedule всё, что известно о дне специалиста
type DaySchedule struct {
	Date        time.Time
	Shifts      []slots.Shift
	Commitments slots.Commitments
	Duration    time.Duration
	Slots       []slots.Clock
}

// ComputeAvailableSlots свободные времена начала услуги serviceID у специалиста
// на дату date, "HH:MM" по возрастанию. Пустой список - не ошибка.
func (s *AvailabilityService) ComputeAvailableSlots(ctx context.Context, professionalID, serviceID int64, date time.Time) ([]string, error) {
	day, err := s.DaySchedule(ctx, professionalID, serviceID, date)
	if err != nil {
		return nil, err
	}
	return slots.FormatClocks(day.Slots), nil
}

// DaySchedule смены, занятость и свободные слоты на дату.
// Расписание, длительность услуги и занятость читаются параллельно.
func (s *AvailabilityService) DaySchedule(ctx context.Context, professionalID, serviceID int64, date time.Time) (*DaySchedule, error) {
	if professionalID <= 0 {
		return nil, ErrProfessionalNotFound
	}
	if serviceID <= 0 {
		return nil, ErrServiceNotFound
	}

	day := s.Day(date)
	bounds := slots.DayBounds(day)

	var (
		hours    slots.WorkingHours
		duration time.Duration
		busy     slots.Commitments
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hours, err = s.hours.GetWorkingHours(gctx, professionalID)
		return err
	})
	g.Go(func() error {
		var err error
		duration, err = s.durations.GetServiceDuration(gctx, serviceID)
		return err
	})
	g.Go(func() error {
		var err error
		busy, err = s.commitments.GetCommitments(gctx, professionalID, bounds.Start, bounds.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load day schedule: %w", err)
	}

	free := s.engine.Slots(hours, day, duration, busy)

	s.logger.Debug("Slots computed",
		zap.Int64("professional_id", professionalID),
		zap.Int64("service_id", serviceID),
		zap.String("date", day.Format(DateLayout)),
		zap.Int("slots", len(free)),
	)

	return &DaySchedule{
		Date:        day,
		Shifts:      hours.For(day.Weekday()),
		Commitments: busy,
		Duration:    duration,
		Slots:       free,
	}, nil
}

// IsSlotAvailable можно ли записаться к специалисту на [startTime, startTime+duration)
// в дату date. Занятость всегда перечитывается.
func (s *AvailabilityService) IsSlotAvailable(ctx context.Context, professionalID int64, date time.Time, startTime string, durationMinutes int) (bool, error) {
	start, err := slots.ParseClock(startTime)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if durationMinutes <= 0 {
		return false, invalidInput("duration must be positive, got %d", durationMinutes)
	}

	err = s.check(ctx, professionalID, s.Day(date), start, time.Duration(durationMinutes)*time.Minute)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrSlotConflict) {
		return false, nil
	}
	return false, err
}

// check проверка без блокировок. Конфликт - *SlotConflictError.
func (s *AvailabilityService) check(ctx context.Context, professionalID int64, day time.Time, start slots.Clock, duration time.Duration) error {
	hours, err := s.hours.GetWorkingHours(ctx, professionalID)
	if err != nil {
		return err
	}

	window, ok := start.Window(day, duration)
	if !ok {
		from := start.On(day)
		window = slots.Interval{Start: from, End: from.Add(duration)}
	}
	busy, err := s.commitments.GetCommitments(ctx, professionalID, window.Start, window.End)
	if err != nil {
		return fmt.Errorf("get commitments: %w", err)
	}

	return conflictError(professionalID, window, s.engine.Check(hours, day, start, duration, busy))
}

// conflictError превращает результат Engine.Check в ошибку сервиса
func conflictError(professionalID int64, window slots.Interval, err error) error {
	if err == nil {
		return nil
	}
	var conflict *slots.Conflict
	if errors.As(err, &conflict) {
		return &SlotConflictError{
			ProfessionalID: professionalID,
			Start:          window.Start,
			End:            window.End,
			Reason:         conflict.Reason,
		}
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
