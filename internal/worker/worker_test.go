package worker

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"docms/internal/messaging"
)

// fakeAcknowledger records the acknowledgement decisions made for a delivery.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

// recordingProcessor captures the events it was handed and can be told to fail.
type recordingProcessor struct {
	events []messaging.DocumentUploadedEvent
	err    error
}

func (p *recordingProcessor) Process(_ context.Context, event messaging.DocumentUploadedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func TestWorker_HandleAcksProcessedMessage(t *testing.T) {
	proc := &recordingProcessor{}
	w := New("amqp://localhost/", "documents.uploaded", proc, zap.NewNop())

	ack := &fakeAcknowledger{}
	w.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  1,
		Body:         []byte(`{"documentId":5,"title":"Scan","location":null}`),
	})

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	if assert.Len(t, proc.events, 1) {
		assert.Equal(t, int64(5), proc.events[0].DocumentID)
		assert.Equal(t, "Scan", proc.events[0].Title)
		assert.Nil(t, proc.events[0].Location)
	}
}

func TestWorker_HandleRequeuesOnProcessorError(t *testing.T) {
	proc := &recordingProcessor{err: errors.New("ocr backend down")}
	w := New("amqp://localhost/", "documents.uploaded", proc, zap.NewNop())

	ack := &fakeAcknowledger{}
	w.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  2,
		Body:         []byte(`{"documentId":5,"title":"Scan","location":null}`),
	})

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue, "failed messages must go back to the queue")
}

func TestWorker_HandleRequeuesMalformedPayload(t *testing.T) {
	proc := &recordingProcessor{}
	w := New("amqp://localhost/", "documents.uploaded", proc, zap.NewNop())

	ack := &fakeAcknowledger{}
	w.handle(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  3,
		Body:         []byte(`not json at all`),
	})

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)
	assert.Empty(t, proc.events, "undecodable payloads never reach the processor")
}

func TestOCRProcessor_AcceptsEvent(t *testing.T) {
	p := NewOCRProcessor(zap.NewNop())
	err := p.Process(context.Background(), messaging.DocumentUploadedEvent{DocumentID: 1, Title: "x"})
	assert.NoError(t, err)
}
