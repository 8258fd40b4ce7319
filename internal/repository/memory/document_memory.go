package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"docms/internal/model"
	"docms/internal/repository"
)

// DocumentMemory is an in-process implementation of
// repository.DocumentRepository used by tests and isolated environments.
// It honors the same identity contract as the SQL store: ids are assigned
// here, monotonically, and never reused after a delete.
type DocumentMemory struct {
	mu     sync.RWMutex
	nextID int64
	docs   map[int64]model.Document
}

// NewDocumentMemory constructs an empty in-memory repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{
		nextID: 1,
		docs:   make(map[int64]model.Document),
	}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func (r *DocumentMemory) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := cloneDocument(doc)
	return &out, nil
}

func (r *DocumentMemory) Search(ctx context.Context, q string) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		if q == "" || strings.Contains(doc.Title, q) {
			items = append(items, cloneDocument(doc))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *DocumentMemory) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneDocument(*doc)
	stored.ID = r.nextID
	r.nextID++
	r.docs[stored.ID] = stored

	out := cloneDocument(stored)
	return &out, nil
}

func (r *DocumentMemory) Update(ctx context.Context, doc *model.Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; !ok {
		return false, nil
	}
	r.docs[doc.ID] = cloneDocument(*doc)
	return true, nil
}

func (r *DocumentMemory) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	return true, nil
}

// cloneDocument copies the record so callers cannot mutate stored state
// through shared slices or pointers.
func cloneDocument(doc model.Document) model.Document {
	out := doc
	if doc.Tags != nil {
		out.Tags = append([]string(nil), doc.Tags...)
	}
	if doc.Location != nil {
		loc := *doc.Location
		out.Location = &loc
	}
	if doc.Author != nil {
		author := *doc.Author
		out.Author = &author
	}
	if doc.CreationDuration != nil {
		dur := *doc.CreationDuration
		out.CreationDuration = &dur
	}
	return out
}
