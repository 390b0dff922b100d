// Package cache кэш недельных расписаний специалистов в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultTTL = 10 * time.Minute
	keyPrefix  = "working_hours:professional:"
)

// WorkingHoursCache кэш расписаний. Ошибки Redis не фатальны: при них
// кэш ведёт себя как промах, и данные читаются из БД.
// С nil клиентом кэш выключен.
type WorkingHoursCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewWorkingHoursCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *WorkingHoursCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &WorkingHoursCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Enabled подключён ли Redis
func (c *WorkingHoursCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get расписание из кэша; false - промах
func (c *WorkingHoursCache) Get(ctx context.Context, professionalID int64) ([]*model.WorkingHoursEntry, bool) {
	if !c.Enabled() {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key(professionalID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Working hours cache read failed", zap.Int64("professional_id", professionalID), zap.Error(err))
		}
		return nil, false
	}

	var entries []*model.WorkingHoursEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.logger.Warn("Working hours cache entry is corrupted", zap.Int64("professional_id", professionalID), zap.Error(err))
		return nil, false
	}
	return entries, true
}

// Set кладёт расписание в кэш
func (c *WorkingHoursCache) Set(ctx context.Context, professionalID int64, entries []*model.WorkingHoursEntry) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("Failed to encode working hours", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key(professionalID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Working hours cache write failed", zap.Int64("professional_id", professionalID), zap.Error(err))
	}
}

// Invalidate удаляет расписание из кэша. Ошибка возвращается, чтобы
// вызывающий мог решить, критично ли устаревшее значение.
func (c *WorkingHoursCache) Invalidate(ctx context.Context, professionalID int64) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Del(ctx, key(professionalID)).Err(); err != nil {
		return fmt.Errorf("invalidate working hours cache: %w", err)
	}
	return nil
}

// Ping проверка доступности Redis для /readyz
func (c *WorkingHoursCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func key(professionalID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, professionalID)
}
