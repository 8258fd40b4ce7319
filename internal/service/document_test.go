package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docms/internal/messaging"
	msgmocks "docms/internal/messaging/mocks"
	"docms/internal/model"
	repomocks "docms/internal/repository/mocks"
)

func newService(repo *repomocks.MockDocumentRepository, queue *msgmocks.MockPublisher) DocumentService {
	return NewDocumentService(repo, queue, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestDocumentService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      CreateDocumentInput
		setupMocks func(repo *repomocks.MockDocumentRepository, queue *msgmocks.MockPublisher)
		wantErr    error
	}{
		{
			name:  "blank title rejected before any side effect",
			input: CreateDocumentInput{Title: "   "},
			setupMocks: func(repo *repomocks.MockDocumentRepository, queue *msgmocks.MockPublisher) {
			},
			wantErr: ErrTitleRequired,
		},
		{
			name:  "oversized title rejected",
			input: CreateDocumentInput{Title: strings.Repeat("x", model.MaxTitleLen+1)},
			setupMocks: func(repo *repomocks.MockDocumentRepository, queue *msgmocks.MockPublisher) {
			},
			wantErr: ErrTitleTooLong,
		},
		{
			name:  "oversized location rejected",
			input: CreateDocumentInput{Title: "ok", Location: strPtr(strings.Repeat("x", model.MaxLocationLen+1))},
			setupMocks: func(repo *repomocks.MockDocumentRepository, queue *msgmocks.MockPublisher) {
			},
			wantErr: ErrLocationTooLong,
		},
		{
			name:  "persistence failure skips publish",
			input: CreateDocumentInput{Title: "doomed"},
			setupMocks: func(repo *repomocks.MockDocumentRepository, queue *msgmocks.MockPublisher) {
				repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repomocks.MockDocumentRepository)
			queue := new(msgmocks.MockPublisher)
			tt.setupMocks(repo, queue)

			svc := newService(repo, queue)
			doc, err := svc.Create(context.Background(), tt.input)

			assert.Error(t, err)
			assert.Nil(t, doc)
			if errors.Is(tt.wantErr, ErrTitleRequired) || errors.Is(tt.wantErr, ErrTitleTooLong) || errors.Is(tt.wantErr, ErrLocationTooLong) {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			repo.AssertExpectations(t)
			// No publish must happen on any failure path above.
			queue.AssertNotCalled(t, "PublishDocumentUploaded", mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_Create_HappyPath(t *testing.T) {
	repo := new(repomocks.MockDocumentRepository)
	queue := new(msgmocks.MockPublisher)

	created := &model.Document{
		ID:       1,
		Title:    "API Doc",
		Location: strPtr("s3://bucket/api.pdf"),
		Author:   strPtr("Matteo"),
		Tags:     []string{"swen3"},
	}
	repo.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	queue.On("PublishDocumentUploaded", mock.Anything, mock.MatchedBy(func(e messaging.DocumentUploadedEvent) bool {
		return e.DocumentID == 1 && e.Title == "API Doc" && e.Location != nil
	})).Return(nil)

	svc := newService(repo, queue)
	doc, err := svc.Create(context.Background(), CreateDocumentInput{
		Title:    "API Doc",
		Location: strPtr("s3://bucket/api.pdf"),
		Author:   strPtr("Matteo"),
		Tags:     []string{"swen3"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.ID)
	repo.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestDocumentService_Create_PublishFailureStillSucceeds(t *testing.T) {
	repo := new(repomocks.MockDocumentRepository)
	queue := new(msgmocks.MockPublisher)

	created := &model.Document{ID: 9, Title: "Persisted"}
	repo.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	queue.On("PublishDocumentUploaded", mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable"))

	svc := newService(repo, queue)
	doc, err := svc.Create(context.Background(), CreateDocumentInput{Title: "Persisted"})

	// The record is committed; a missed event must not fail the call.
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, int64(9), doc.ID)
	queue.AssertExpectations(t)
}

func TestDocumentService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		repo.On("FindByID", mock.Anything, int64(3)).
			Return(&model.Document{ID: 3, Title: "Found"}, nil)

		svc := newService(repo, new(msgmocks.MockPublisher))
		doc, err := svc.Get(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, "Found", doc.Title)
	})

	t.Run("missing maps to not found", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		repo.On("FindByID", mock.Anything, int64(404)).Return(nil, sql.ErrNoRows)

		svc := newService(repo, new(msgmocks.MockPublisher))
		doc, err := svc.Get(context.Background(), 404)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentService_Search_TrimsQuery(t *testing.T) {
	repo := new(repomocks.MockDocumentRepository)
	repo.On("Search", mock.Anything, "").Return([]model.Document{{ID: 1}, {ID: 2}}, nil)

	svc := newService(repo, new(msgmocks.MockPublisher))
	docs, err := svc.Search(context.Background(), "   ")

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	repo.AssertExpectations(t)
}

func TestDocumentService_Update(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		repo.On("FindByID", mock.Anything, int64(1)).Return(nil, sql.ErrNoRows)

		svc := newService(repo, new(msgmocks.MockPublisher))
		err := svc.Update(context.Background(), 1, UpdateDocumentInput{Title: "new"})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validation precedes lookup", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)

		svc := newService(repo, new(msgmocks.MockPublisher))
		err := svc.Update(context.Background(), 1, UpdateDocumentInput{Title: ""})

		assert.ErrorIs(t, err, ErrTitleRequired)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("full replacement", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		existing := &model.Document{ID: 2, Title: "old", Author: strPtr("someone")}
		repo.On("FindByID", mock.Anything, int64(2)).Return(existing, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.ID == 2 && doc.Title == "new" && doc.Author == nil
		})).Return(true, nil)

		svc := newService(repo, new(msgmocks.MockPublisher))
		err := svc.Update(context.Background(), 2, UpdateDocumentInput{Title: "new"})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("vanished row surfaces as error", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		repo.On("FindByID", mock.Anything, int64(2)).
			Return(&model.Document{ID: 2, Title: "old"}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(false, nil)

		svc := newService(repo, new(msgmocks.MockPublisher))
		err := svc.Update(context.Background(), 2, UpdateDocumentInput{Title: "new"})

		assert.ErrorIs(t, err, ErrNoRowsAffected)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		repo.On("Delete", mock.Anything, int64(1)).Return(true, nil)

		svc := newService(repo, new(msgmocks.MockPublisher))
		assert.NoError(t, svc.Delete(context.Background(), 1))
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(repomocks.MockDocumentRepository)
		repo.On("Delete", mock.Anything, int64(1)).Return(false, nil)

		svc := newService(repo, new(msgmocks.MockPublisher))
		assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrNotFound)
	})
}
