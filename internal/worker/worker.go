package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"docms/internal/messaging"
)

// dialTimeout bounds the initial broker connect instead of relying on the
// client default.
const dialTimeout = 30 * time.Second

// Processor handles one decoded document-uploaded event. Implementations
// must be reentrant: the broker client may dispatch deliveries concurrently.
type Processor interface {
	Process(ctx context.Context, event messaging.DocumentUploadedEvent) error
}

// OCRProcessor is the placeholder processing step. A real OCR pipeline would
// be substituted here; today it only records the delivery.
type OCRProcessor struct {
	log *zap.Logger
}

// NewOCRProcessor constructs the placeholder processor.
func NewOCRProcessor(log *zap.Logger) *OCRProcessor {
	return &OCRProcessor{log: log}
}

var _ Processor = (*OCRProcessor)(nil)

func (p *OCRProcessor) Process(_ context.Context, event messaging.DocumentUploadedEvent) error {
	p.log.Info("received document for OCR",
		zap.Int64("document_id", event.DocumentID),
		zap.String("title", event.Title))
	return nil
}

// Worker is the long-running consumer that drains the document-uploaded
// queue with manual acknowledgements: a successfully processed message is
// acked, any failure is nacked with requeue so the broker redelivers it
// (at-least-once; there is no dead-letter routing or redelivery cap).
type Worker struct {
	url   string
	queue string
	proc  Processor
	log   *zap.Logger
}

// New constructs a worker for the given broker URL and queue.
func New(url, queue string, proc Processor, log *zap.Logger) *Worker {
	return &Worker{url: url, queue: queue, proc: proc, log: log}
}

// Run connects to the broker, declares the durable queue (matching the
// publisher's declaration so either side may start first), and consumes
// until ctx is cancelled. A closed delivery channel — the broker dropped the
// connection — fails the loop visibly rather than hanging.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.DialConfig(w.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return fmt.Errorf("%w: dial broker: %w", messaging.ErrMessaging, err)
	}
	defer w.closeQuietly("connection", conn.Close)

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %w", messaging.ErrMessaging, err)
	}
	defer w.closeQuietly("channel", ch.Close)

	if _, err := ch.QueueDeclare(
		w.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("%w: declare queue %q: %w", messaging.ErrMessaging, w.queue, err)
	}

	deliveries, err := ch.Consume(
		w.queue,
		"",    // consumer tag assigned by broker
		false, // manual acknowledgement
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("%w: consume queue %q: %w", messaging.ErrMessaging, w.queue, err)
	}

	w.log.Info("worker listening", zap.String("queue", w.queue))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutdown signal received, closing consumer")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%w: delivery channel closed by broker", messaging.ErrMessaging)
			}
			w.handle(ctx, d)
		}
	}
}

// handle processes one delivery and acknowledges it. Errors never escape:
// a failed message is returned to the queue and the loop keeps running.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	if err := w.process(ctx, d.Body); err != nil {
		w.log.Error("failed to process message, requeueing",
			zap.Uint64("delivery_tag", d.DeliveryTag),
			zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			w.log.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		w.log.Error("failed to ack message", zap.Error(err))
	}
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	var event messaging.DocumentUploadedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return w.proc.Process(ctx, event)
}

// closeQuietly logs disposal errors instead of propagating them: a failed
// close must not crash the shutdown path.
func (w *Worker) closeQuietly(what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		w.log.Warn("error closing "+what, zap.Error(err))
	}
}
