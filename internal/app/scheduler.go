package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxDrainRounds сколько пачек outbox публикуется за один тик
const maxDrainRounds = 10

// OutboxPublisher публикует пачку событий outbox, возвращает их число
type OutboxPublisher interface {
	PublishBatch(ctx context.Context) (int, error)
}

// NoShowMarker отмечает неявки
type NoShowMarker interface {
	MarkNoShows(ctx context.Context, now time.Time, grace time.Duration) (int, error)
}

// SchedulerConfig периоды фоновых задач
type SchedulerConfig struct {
	OutboxInterval time.Duration
	NoShowInterval time.Duration
	NoShowGrace    time.Duration // <= 0 выключает отметку неявок
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	outbox   OutboxPublisher // nil - Kafka не настроена
	noShows  NoShowMarker
	cfg      SchedulerConfig
	logger   *zap.Logger
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(outbox OutboxPublisher, noShows NoShowMarker, cfg SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		outbox:   outbox,
		noShows:  noShows,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	if s.outbox != nil {
		s.run(ctx, "outbox", s.cfg.OutboxInterval, s.publishOutbox)
	} else {
		s.logger.Warn("Outbox publishing disabled")
	}

	if s.noShows != nil && s.cfg.NoShowGrace > 0 {
		s.run(ctx, "no_show", s.cfg.NoShowInterval, s.markNoShows)
	} else {
		s.logger.Info("No-show marking disabled")
	}
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// run выполняет task сразу и затем каждые interval
func (s *Scheduler) run(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		task(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				task(ctx)
			case <-s.stopChan:
				s.logger.Info("Background task stopped", zap.String("task", name))
				return
			case <-ctx.Done():
				s.logger.Info("Background task stopped", zap.String("task", name), zap.Error(ctx.Err()))
				return
			}
		}
	}()
}

// publishOutbox публикует пачки, пока outbox не опустеет
func (s *Scheduler) publishOutbox(ctx context.Context) {
	total := 0
	for range maxDrainRounds {
		n, err := s.outbox.PublishBatch(ctx)
		if err != nil {
			s.logger.Error("Failed to publish outbox", zap.Error(err))
			break
		}
		total += n
		if n == 0 || ctx.Err() != nil {
			break
		}
	}
	if total > 0 {
		s.logger.Debug("Outbox events published", zap.Int("count", total))
	}
}

func (s *Scheduler) markNoShows(ctx context.Context) {
	n, err := s.noShows.MarkNoShows(ctx, s.now(), s.cfg.NoShowGrace)
	if err != nil {
		s.logger.Error("Failed to mark no-shows", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Appointments marked as no-show", zap.Int("count", n))
	}
}
