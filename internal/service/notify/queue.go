package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ifuryst/beacon/internal/config"
)

const publishTimeout = 5 * time.Second

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueNotifier publishes events as JSON to a durable queue.
type QueueNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	pub     publisher
	queue   string
	logger  *zap.Logger
}

func NewQueueNotifier(cfg *config.QueueConfig, logger *zap.Logger) (*QueueNotifier, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, cfg.Queue); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("Connected to RabbitMQ", zap.String("queue", cfg.Queue))

	return &QueueNotifier{conn: conn, channel: ch, pub: ch, queue: cfg.Queue, logger: logger}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return q, nil
}

func (q *QueueNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = q.pub.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Consume hands every queued event to handle until ctx ends or the channel closes.
// Messages are acknowledged only after handle succeeds; failures are requeued once.
func (q *QueueNotifier) Consume(ctx context.Context, handle func(context.Context, Event) error) error {
	msgs, err := q.channel.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			q.deliver(ctx, d, handle)
		}
	}
}

func (q *QueueNotifier) deliver(ctx context.Context, d amqp.Delivery, handle func(context.Context, Event) error) {
	var event Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		q.logger.Warn("Dropping malformed event", zap.Error(err))
		_ = d.Reject(false)
		return
	}

	if err := handle(ctx, event); err != nil {
		q.logger.Error("Failed to handle event",
			zap.String("type", event.Type),
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err))
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (q *QueueNotifier) Close() error {
	if q.conn == nil {
		return nil
	}
	return q.conn.Close()
}
