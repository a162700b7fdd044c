package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/timesheet-reporting/internal/queue"
)

// EventPublisher publishes domain events to the activity queue on RabbitMQ.
// Each call opens its own connection; events are rare (sign-in, new entry,
// report) so there is no pool to keep alive.  Errors are returned; the
// services log them.
type EventPublisher struct {
	url string
}

// NewEventPublisher returns a publisher for the broker at url.  An empty url
// yields NopPublisher.
func NewEventPublisher(url string) Publisher {
	if url == "" {
		return NopPublisher
	}
	return &EventPublisher{url: url}
}

// Publish sends ev as a persistent JSON message to queue.ActivityQueue.
func (p *EventPublisher) Publish(ctx context.Context, ev queue.Event) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.ActivityQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ActivityQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
