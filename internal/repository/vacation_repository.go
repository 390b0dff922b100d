package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository/base"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VacationRepository struct {
	pool *pgxpool.Pool
}

func NewVacationRepository(pool *pgxpool.Pool) *VacationRepository {
	return &VacationRepository{pool: pool}
}

// GetByID получает отпуск по ID
func (r *VacationRepository) GetByID(ctx context.Context, id int64) (*model.Vacation, error) {
	query := `
		SELECT id, professional_id, starts_at, ends_at, reason, created_at
		FROM vacations
		WHERE id = $1
	`

	var v model.Vacation
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.ProfessionalID, &v.StartsAt, &v.EndsAt, &v.Reason, &v.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vacation by id: %w", err)
	}

	return &v, nil
}

// Delete удаляет отпуск. false - отпуска не было
func (r *VacationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := base.ExecAffected(ctx, r.pool, `DELETE FROM vacations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete vacation: %w", err)
	}
	return affected > 0, nil
}

// ListByProfessional отпуска специалиста, которые заканчиваются после from
func (r *VacationRepository) ListByProfessional(ctx context.Context, professionalID int64, from time.Time) ([]*model.Vacation, error) {
	query := `
		SELECT id, professional_id, starts_at, ends_at, reason, created_at
		FROM vacations
		WHERE professional_id = $1 AND ends_at > $2
		ORDER BY starts_at
	`

	rows, err := r.pool.Query(ctx, query, professionalID, from)
	if err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	defer rows.Close()

	var vacations []*model.Vacation
	for rows.Next() {
		var v model.Vacation
		if err := rows.Scan(&v.ID, &v.ProfessionalID, &v.StartsAt, &v.EndsAt, &v.Reason, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vacation: %w", err)
		}
		vacations = append(vacations, &v)
	}

	return vacations, rows.Err()
}

func insertVacation(ctx context.Context, q base.Querier, v *model.Vacation) error {
	query := `
		INSERT INTO vacations (professional_id, starts_at, ends_at, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := q.QueryRow(ctx, query, v.ProfessionalID, v.StartsAt, v.EndsAt, v.Reason).Scan(&v.ID, &v.CreatedAt); err != nil {
		return fmt.Errorf("create vacation: %w", err)
	}
	return nil
}

func vacationIntervals(ctx context.Context, q base.Querier, professionalID int64, window slots.Interval) ([]slots.Interval, error) {
	query := `
		SELECT starts_at, ends_at
		FROM vacations
		WHERE professional_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at
	`

	return queryIntervals(ctx, q, query, professionalID, window.Start, window.End)
}
