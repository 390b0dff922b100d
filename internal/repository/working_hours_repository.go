package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository/base"
	"github.com/Freeeeeet/appointment_scheduler/internal/slots"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// WorkingHoursRepository недельные расписания специалистов.
// В БД время смены хранится в минутах от полуночи.
type WorkingHoursRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewWorkingHoursRepository(pool *pgxpool.Pool, logger *zap.Logger) *WorkingHoursRepository {
	return &WorkingHoursRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// GetByProfessionalID получает все смены специалиста, упорядоченные по дню и началу
func (r *WorkingHoursRepository) GetByProfessionalID(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, error) {
	query := `
		SELECT id, professional_id, weekday, start_minute, end_minute
		FROM working_hours
		WHERE professional_id = $1
		ORDER BY weekday, start_minute
	`

	rows, err := r.Pool().Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("get working hours: %w", err)
	}
	defer rows.Close()

	var entries []*model.WorkingHoursEntry
	for rows.Next() {
		var (
			entry            model.WorkingHoursEntry
			weekday          int16
			startMin, endMin int16
		)
		if err := rows.Scan(&entry.ID, &entry.ProfessionalID, &weekday, &startMin, &endMin); err != nil {
			return nil, fmt.Errorf("scan working hours: %w", err)
		}
		entry.Weekday = time.Weekday(weekday)
		entry.StartTime = slots.Clock(startMin).String()
		entry.EndTime = slots.Clock(endMin).String()
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Replace заменяет расписание специалиста целиком в одной транзакции
func (r *WorkingHoursRepository) Replace(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM working_hours WHERE professional_id = $1`, professionalID); err != nil {
			return fmt.Errorf("delete working hours: %w", err)
		}

		batch := &pgx.Batch{}
		for _, entry := range entries {
			start, err := slots.ParseClock(entry.StartTime)
			if err != nil {
				return fmt.Errorf("parse start time: %w", err)
			}
			end, err := slots.ParseClock(entry.EndTime)
			if err != nil {
				return fmt.Errorf("parse end time: %w", err)
			}
			batch.Queue(`
				INSERT INTO working_hours (professional_id, weekday, start_minute, end_minute)
				VALUES ($1, $2, $3, $4)
			`, professionalID, int16(entry.Weekday), int16(start), int16(end))
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert working hours: %w", err)
		}

		r.logger.Info("Working hours replaced",
			zap.Int64("professional_id", professionalID),
			zap.Int("shifts", len(entries)),
		)
		return nil
	})
}

// ToWorkingHours собирает записи в недельное расписание движка слотов
func ToWorkingHours(entries []*model.WorkingHoursEntry) (slots.WorkingHours, error) {
	hours := make(slots.WorkingHours)
	for _, entry := range entries {
		start, err := slots.ParseClock(entry.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := slots.ParseClock(entry.EndTime)
		if err != nil {
			return nil, err
		}
		hours[entry.Weekday] = append(hours[entry.Weekday], slots.Shift{Start: start, End: end})
	}
	return hours, nil
}
