package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docms/internal/messaging"
	"docms/internal/model"
	"docms/internal/repository"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title exceeds maximum length")
	ErrLocationTooLong = errors.New("location exceeds maximum length")
	ErrAuthorTooLong   = errors.New("author exceeds maximum length")
	ErrNotFound        = errors.New("document not found")
	ErrNoRowsAffected  = errors.New("update affected no rows")
)

// CreateDocumentInput carries the client-supplied fields for a new document.
type CreateDocumentInput struct {
	Title    string
	Location *string
	Author   *string
	Tags     []string
}

// UpdateDocumentInput carries the full replacement fields for an existing document.
type UpdateDocumentInput struct {
	Title    string
	Location *string
	Author   *string
	Tags     []string
}

// DocumentService defines the use cases for document metadata.
type DocumentService interface {
	// Create validates input, persists the record, and publishes a
	// document-uploaded event for the OCR worker. Publication is
	// best-effort relative to the response: a failed publish is logged but
	// does not fail the call, since the store write already committed.
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)

	// Get returns a single document by id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// Search returns documents whose title contains q as a substring.
	// A blank or whitespace-only q returns the full set.
	Search(ctx context.Context, q string) ([]model.Document, error)

	// Update replaces all mutable fields of the document identified by id.
	Update(ctx context.Context, id int64, in UpdateDocumentInput) error

	// Delete removes a document by id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	repo  repository.DocumentRepository
	queue messaging.Publisher
	log   *zap.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, queue messaging.Publisher, log *zap.Logger) DocumentService {
	return &documentService{repo: repo, queue: queue, log: log}
}

// Create runs the ingestion pipeline: validate → persist → publish.
// Exactly one store write and at most one publish attempt per invocation;
// no publish attempt is made when persistence fails.
func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	if err := validateFields(in.Title, in.Location, in.Author); err != nil {
		return nil, err
	}

	doc := &model.Document{
		Title:    in.Title,
		Location: in.Location,
		Author:   in.Author,
		Tags:     in.Tags,
	}
	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	// The event snapshots the persisted record, including the
	// store-assigned id.
	event := messaging.DocumentUploadedEvent{
		DocumentID: created.ID,
		Title:      created.Title,
		Location:   created.Location,
	}
	if err := s.queue.PublishDocumentUploaded(ctx, event); err != nil {
		// The record is committed; rolling it back here would lose data the
		// client was promised. Downstream consumers tolerate a missed
		// trigger, so the create still succeeds.
		s.log.Error("failed to publish document uploaded event",
			zap.Int64("document_id", created.ID),
			zap.Error(err))
		return created, nil
	}

	s.log.Info("document queued for OCR", zap.Int64("document_id", created.ID))
	return created, nil
}

// Get returns a document by id.
func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Search trims the query so blank and whitespace-only queries both return
// the full unfiltered set.
func (s *documentService) Search(ctx context.Context, q string) ([]model.Document, error) {
	return s.repo.Search(ctx, strings.TrimSpace(q))
}

// Update performs a full field replacement on an existing document.
func (s *documentService) Update(ctx context.Context, id int64, in UpdateDocumentInput) error {
	if err := validateFields(in.Title, in.Location, in.Author); err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	existing.Title = in.Title
	existing.Location = in.Location
	existing.Author = in.Author
	existing.Tags = in.Tags

	ok, err := s.repo.Update(ctx, existing)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoRowsAffected
	}
	return nil
}

// Delete removes a document by id.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// validateFields enforces the data model bounds. Runs before any
// persistence attempt so invalid input has no side effects.
func validateFields(title string, location, author *string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len(title) > model.MaxTitleLen {
		return ErrTitleTooLong
	}
	if location != nil && len(*location) > model.MaxLocationLen {
		return ErrLocationTooLong
	}
	if author != nil && len(*author) > model.MaxAuthorLen {
		return ErrAuthorTooLong
	}
	return nil
}
