package repository

import (
	"context"
	"errors"

	"docms/internal/model"
)

// ErrRepository is the single error kind for store failures (unavailable
// backend, constraint or concurrency violation). Not-found is reported as
// sql.ErrNoRows, never as ErrRepository.
var ErrRepository = errors.New("document repository error")

// DocumentRepository defines data access for document metadata.
// No business logic here — strictly persistence operations. The store owns
// document identity: Create assigns the id, and ids are never reused.
type DocumentRepository interface {
	// FindByID returns a document by its id, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// Search returns all documents whose title contains q as a substring
	// (case-sensitive), ordered by id. An empty q returns the full set.
	Search(ctx context.Context, q string) ([]model.Document, error)

	// Create inserts a new document record and returns the stored document
	// including the store-assigned id.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Update replaces all mutable fields of the document identified by
	// doc.ID. The bool reports whether a row was affected.
	Update(ctx context.Context, doc *model.Document) (bool, error)

	// Delete removes a document by id. The bool reports whether a row was
	// deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
