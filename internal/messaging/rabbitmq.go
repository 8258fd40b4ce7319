package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"docms/internal/config"
)

// RabbitPublisher publishes document-uploaded events to RabbitMQ.
//
// Each publish opens a fresh connection and channel: publish volume is
// bounded by the document-creation rate, and per-call connections keep a
// broken connection in one request from poisoning another's. The durable
// queue is declared on every call so either side (publisher or worker) may
// start first and a broker restart needs no separate provisioning step.
type RabbitPublisher struct {
	url   string
	queue string
	log   *zap.Logger
}

// NewRabbitPublisher constructs a publisher for the configured broker and queue.
func NewRabbitPublisher(cfg config.RabbitMQConfig, log *zap.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		url:   BrokerURL(cfg),
		queue: cfg.QueueName,
		log:   log,
	}
}

var _ Publisher = (*RabbitPublisher)(nil)

// BrokerURL renders an amqp:// URL from broker settings.
func BrokerURL(cfg config.RabbitMQConfig) string {
	u := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		Vhost:    cfg.VirtualHost,
	}
	return u.String()
}

// PublishDocumentUploaded serializes the event and hands it to the broker as
// a persistent message on the durable queue. Every failure is wrapped into
// ErrMessaging and surfaced to the caller; there is no internal retry.
func (p *RabbitPublisher) PublishDocumentUploaded(ctx context.Context, event DocumentUploadedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: dial broker: %w", ErrMessaging, err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %w", ErrMessaging, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("%w: declare queue %q: %w", ErrMessaging, p.queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encode event: %w", ErrMessaging, err)
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: publish: %w", ErrMessaging, err)
	}

	p.log.Info("published document uploaded event",
		zap.Int64("document_id", event.DocumentID),
		zap.String("queue", p.queue))
	return nil
}
