package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository/base"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingTx операции, выполняемые внутри одной транзакции записи.
// Получается только через BookingRepository.Atomically.
type BookingTx interface {
	// Commitments занятость специалиста в window; excludeID не учитывается (для переноса)
	Commitments(ctx context.Context, professionalID int64, window slots.Interval, excludeID int64) (slots.Commitments, error)
	// ActiveAppointments не отменённые записи специалиста, пересекающиеся с window
	ActiveAppointments(ctx context.Context, professionalID int64, window slots.Interval) ([]*model.Appointment, error)
	// GetAppointment запись с блокировкой строки; nil, если нет
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	UpdateAppointmentSlot(ctx context.Context, a *model.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, a *model.Appointment) error
	CreateVacation(ctx context.Context, v *model.Vacation) error
	MarkNoShows(ctx context.Context, before time.Time) ([]*model.Appointment, error)
	AddEvent(ctx context.Context, e *model.OutboxEvent) error
}

// BookingRepository единственное место, где меняется календарь специалиста.
// Все записи одного специалиста сериализуются advisory lock'ом,
// exclusion-ограничение в БД страхует от пересечений.
type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Atomically выполняет fn в транзакции, предварительно взяв блокировки
// календарей professionalIDs. Блокировки берутся по возрастанию ID,
// поэтому перенос между двумя специалистами не приводит к deadlock.
func (r *BookingRepository) Atomically(ctx context.Context, professionalIDs []int64, fn func(ctx context.Context, tx BookingTx) error) error {
	ids := slices.Clone(professionalIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		for _, id := range ids {
			if _, err := tx.Exec(ctx,
				`SELECT pg_advisory_xact_lock(hashtextextended('appointments:professional:' || $1::text, 0))`,
				id,
			); err != nil {
				return fmt.Errorf("lock professional %d calendar: %w", id, err)
			}
		}
		return fn(ctx, &bookingTx{tx: tx})
	})
}

type bookingTx struct {
	tx pgx.Tx
}

func (b *bookingTx) Commitments(ctx context.Context, professionalID int64, window slots.Interval, excludeID int64) (slots.Commitments, error) {
	return loadCommitments(ctx, b.tx, professionalID, window, excludeID)
}

func (b *bookingTx) ActiveAppointments(ctx context.Context, professionalID int64, window slots.Interval) ([]*model.Appointment, error) {
	return activeAppointments(ctx, b.tx, professionalID, window, 0)
}

func (b *bookingTx) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return getAppointment(ctx, b.tx, id, true)
}

func (b *bookingTx) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return insertAppointment(ctx, b.tx, a)
}

func (b *bookingTx) UpdateAppointmentSlot(ctx context.Context, a *model.Appointment) error {
	return updateAppointmentSlot(ctx, b.tx, a)
}

func (b *bookingTx) UpdateAppointmentStatus(ctx context.Context, a *model.Appointment) error {
	return updateAppointmentStatus(ctx, b.tx, a)
}

func (b *bookingTx) CreateVacation(ctx context.Context, v *model.Vacation) error {
	return insertVacation(ctx, b.tx, v)
}

func (b *bookingTx) MarkNoShows(ctx context.Context, before time.Time) ([]*model.Appointment, error) {
	return markNoShows(ctx, b.tx, before)
}

func (b *bookingTx) AddEvent(ctx context.Context, e *model.OutboxEvent) error {
	return insertOutboxEvent(ctx, b.tx, e)
}
