// Package events публикует события записей из outbox в Kafka.
package events

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultBatchSize = 50

// OutboxStore хранилище outbox-событий
type OutboxStore interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	FetchUnpublished(ctx context.Context, tx pgx.Tx, limit int) ([]*model.OutboxEvent, error)
	MarkPublished(ctx context.Context, tx pgx.Tx, ids []int64) error
}

// MessageWriter то, что нужно publisher'у от kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher переносит события из outbox_events в Kafka.
// Топик = тип события, ключ = ID записи: события одной записи
// попадают в одну партицию и читаются по порядку.
type Publisher struct {
	store     OutboxStore
	writer    MessageWriter
	logger    *zap.Logger
	batchSize int
}

// NewPublisher создаёт publisher. Без брокеров возвращает nil:
// события копятся в outbox, пока Kafka не настроят.
func NewPublisher(store OutboxStore, brokers []string, logger *zap.Logger) *Publisher {
	brokers = SplitBrokers(strings.Join(brokers, ","))
	if len(brokers) == 0 {
		logger.Warn("Outbox publisher disabled (no kafka brokers configured)")
		return nil
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(store, writer, logger)
}

// WithBatchSize максимальное число событий за один PublishBatch, n <= 0 не меняет значение
func (p *Publisher) WithBatchSize(n int) *Publisher {
	if p != nil && n > 0 {
		p.batchSize = n
	}
	return p
}

func newPublisher(store OutboxStore, writer MessageWriter, logger *zap.Logger) *Publisher {
	return &Publisher{
		store:     store,
		writer:    writer,
		logger:    logger,
		batchSize: defaultBatchSize,
	}
}

// PublishBatch публикует одну пачку событий. Строки помечаются
// опубликованными в той же транзакции, в которой были захвачены,
// поэтому при ошибке Kafka пачка будет отправлена повторно.
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	published := 0
	err := p.store.WithTx(ctx, func(tx pgx.Tx) error {
		events, err := p.store.FetchUnpublished(ctx, tx, p.batchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(events))
		ids := make([]int64, 0, len(events))
		for _, e := range events {
			msgs = append(msgs, ToMessage(e))
			ids = append(ids, e.ID)
		}

		if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write kafka messages: %w", err)
		}
		if err := p.store.MarkPublished(ctx, tx, ids); err != nil {
			return err
		}
		published = len(events)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("publish outbox batch: %w", err)
	}

	if published > 0 {
		p.logger.Debug("Outbox events published", zap.Int("count", published))
	}
	return published, nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// ToMessage сообщение Kafka для события outbox
func ToMessage(e *model.OutboxEvent) kafka.Message {
	return kafka.Message{
		Topic: e.EventType,
		Key:   []byte(strconv.FormatInt(e.AggregateID, 10)),
		Value: e.Payload,
		Time:  e.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(e.EventID.String())},
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "occurred_at", Value: []byte(e.CreatedAt.UTC().Format(time.RFC3339Nano))},
		},
	}
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
