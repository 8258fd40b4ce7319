package mocks

import (
	"context"

	"docms/internal/messaging"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDocumentUploaded(ctx context.Context, event messaging.DocumentUploadedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
