package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfessionalRepository struct {
	pool *pgxpool.Pool
}

func NewProfessionalRepository(pool *pgxpool.Pool) *ProfessionalRepository {
	return &ProfessionalRepository{pool: pool}
}

// Create создаёт нового специалиста
func (r *ProfessionalRepository) Create(ctx context.Context, p *model.Professional) error {
	query := `
		INSERT INTO professionals (name, is_active)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, p.Name, p.IsActive).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create professional: %w", err)
	}

	return nil
}

// GetByID получает специалиста по ID
func (r *ProfessionalRepository) GetByID(ctx context.Context, id int64) (*model.Professional, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM professionals
		WHERE id = $1
	`

	var p model.Professional
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get professional by id: %w", err)
	}

	return &p, nil
}

// ListActive получает всех активных специалистов
func (r *ProfessionalRepository) ListActive(ctx context.Context) ([]*model.Professional, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM professionals
		WHERE is_active = TRUE
		ORDER BY name, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	var professionals []*model.Professional
	for rows.Next() {
		var p model.Professional
		if err := rows.Scan(&p.ID, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan professional: %w", err)
		}
		professionals = append(professionals, &p)
	}

	return professionals, rows.Err()
}
