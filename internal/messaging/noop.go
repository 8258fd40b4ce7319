package messaging

import (
	"context"

	"go.uber.org/zap"
)

// NoopPublisher is the publisher used in testing and isolated environments.
// It contacts no broker and succeeds immediately, but still honors
// cancellation so callers see the same fail-fast contract as the real one.
type NoopPublisher struct {
	log *zap.Logger
}

// NewNoopPublisher constructs a no-op publisher.
func NewNoopPublisher(log *zap.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

var _ Publisher = (*NoopPublisher)(nil)

func (p *NoopPublisher) PublishDocumentUploaded(ctx context.Context, event DocumentUploadedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.log.Info("skipping queue publish in isolated environment",
		zap.Int64("document_id", event.DocumentID))
	return nil
}
