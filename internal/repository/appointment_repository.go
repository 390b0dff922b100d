package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository/base"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOverlap запись пересеклась с другой активной записью специалиста
// (сработало ограничение appointments_no_overlap)
var ErrOverlap = errors.New("appointment overlaps another appointment")

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `id, professional_id, client_id, service_id, starts_at, ends_at, status,
	price_cents, notes, cancel_reason, cancelled_at, created_at, updated_at`

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	return getAppointment(ctx, r.pool, id, false)
}

// ListByProfessional записи специалиста, начинающиеся в [from, to), включая отменённые
func (r *AppointmentRepository) ListByProfessional(ctx context.Context, professionalID int64, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE professional_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at, id
	`

	appointments, err := queryAppointments(ctx, r.pool, query, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments by professional: %w", err)
	}
	return appointments, nil
}

// ListByClient записи клиента, заканчивающиеся после from
func (r *AppointmentRepository) ListByClient(ctx context.Context, clientID int64, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE client_id = $1 AND ends_at > $2
		ORDER BY starts_at, id
	`

	appointments, err := queryAppointments(ctx, r.pool, query, clientID, from)
	if err != nil {
		return nil, fmt.Errorf("list appointments by client: %w", err)
	}
	return appointments, nil
}

func getAppointment(ctx context.Context, q base.Querier, id int64, forUpdate bool) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	a, err := scanAppointment(q.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}
	return a, nil
}

func insertAppointment(ctx context.Context, q base.Querier, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (professional_id, client_id, service_id, starts_at, ends_at, status, price_cents, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ProfessionalID,
		a.ClientID,
		a.ServiceID,
		a.StartsAt,
		a.EndsAt,
		a.Status,
		a.PriceCents,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if base.IsExclusionViolation(err) {
			return ErrOverlap
		}
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

func updateAppointmentSlot(ctx context.Context, q base.Querier, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET professional_id = $2, service_id = $3, starts_at = $4, ends_at = $5, price_cents = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, a.ID, a.ProfessionalID, a.ServiceID, a.StartsAt, a.EndsAt, a.PriceCents, a.Notes).
		Scan(&a.UpdatedAt)
	if err != nil {
		if base.IsExclusionViolation(err) {
			return ErrOverlap
		}
		if base.IsNotFound(err) {
			return fmt.Errorf("appointment %d not found", a.ID)
		}
		return fmt.Errorf("update appointment slot: %w", err)
	}
	return nil
}

func updateAppointmentStatus(ctx context.Context, q base.Querier, a *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $2, cancel_reason = $3, cancelled_at = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, a.ID, a.Status, a.CancelReason, a.CancelledAt).Scan(&a.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("appointment %d not found", a.ID)
		}
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}

// activeAppointments не отменённые записи специалиста, пересекающиеся с window
func activeAppointments(ctx context.Context, q base.Querier, professionalID int64, window slots.Interval, excludeID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE professional_id = $1
		  AND status <> 'CANCELLED'
		  AND starts_at < $3 AND ends_at > $2
		  AND id <> $4
		ORDER BY starts_at
	`

	appointments, err := queryAppointments(ctx, q, query, professionalID, window.Start, window.End, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list active appointments: %w", err)
	}
	return appointments, nil
}

// markNoShows переводит в NO_SHOW записи, которые закончились до before и так и не начались
func markNoShows(ctx context.Context, q base.Querier, before time.Time) ([]*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = 'NO_SHOW', updated_at = now()
		WHERE status IN ('SCHEDULED', 'CONFIRMED') AND ends_at < $1
		RETURNING ` + appointmentColumns

	appointments, err := queryAppointments(ctx, q, query, before)
	if err != nil {
		return nil, fmt.Errorf("mark no-shows: %w", err)
	}
	return appointments, nil
}

func queryAppointments(ctx context.Context, q base.Querier, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.ClientID,
		&a.ServiceID,
		&a.StartsAt,
		&a.EndsAt,
		&a.Status,
		&a.PriceCents,
		&a.Notes,
		&a.CancelReason,
		&a.CancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
