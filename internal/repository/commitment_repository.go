package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/repository/base"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommitmentRepository читает занятость специалиста для расчёта слотов.
// Чтение без блокировок: окончательную проверку делает BookingRepository.
type CommitmentRepository struct {
	pool *pgxpool.Pool
}

func NewCommitmentRepository(pool *pgxpool.Pool) *CommitmentRepository {
	return &CommitmentRepository{pool: pool}
}

// GetCommitments не отменённые записи и отпуска специалиста, пересекающиеся с [from, to)
func (r *CommitmentRepository) GetCommitments(ctx context.Context, professionalID int64, from, to time.Time) (slots.Commitments, error) {
	return loadCommitments(ctx, r.pool, professionalID, slots.Interval{Start: from, End: to}, 0)
}

func loadCommitments(ctx context.Context, q base.Querier, professionalID int64, window slots.Interval, excludeID int64) (slots.Commitments, error) {
	appointments, err := queryIntervals(ctx, q, `
		SELECT starts_at, ends_at
		FROM appointments
		WHERE professional_id = $1
		  AND status <> 'CANCELLED'
		  AND starts_at < $3 AND ends_at > $2
		  AND id <> $4
		ORDER BY starts_at
	`, professionalID, window.Start, window.End, excludeID)
	if err != nil {
		return slots.Commitments{}, fmt.Errorf("load appointment intervals: %w", err)
	}

	vacations, err := vacationIntervals(ctx, q, professionalID, window)
	if err != nil {
		return slots.Commitments{}, fmt.Errorf("load vacation intervals: %w", err)
	}

	return slots.Commitments{Appointments: appointments, Vacations: vacations}, nil
}

func queryIntervals(ctx context.Context, q base.Querier, query string, args ...any) ([]slots.Interval, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []slots.Interval
	for rows.Next() {
		var iv slots.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}
