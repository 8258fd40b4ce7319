package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docms/internal/model"
	"docms/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = "id, title, location, author, tags, creation_duration"

// Create inserts a new document row. The id is assigned by the database.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (title, location, author, tags, creation_duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + documentColumns

	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}

	row := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.Location,
		doc.Author,
		tags,
		durationValue(doc.CreationDuration),
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	return out, nil
}

// FindByID fetches a single document by its id.
// sql.ErrNoRows is passed through untouched so callers can map it to not-found.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	return doc, nil
}

// Search returns documents whose title contains q, ordered by id.
// An empty q matches every row.
func (r *DocumentPostgres) Search(ctx context.Context, q string) ([]model.Document, error) {
	const query = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE $1 = '' OR strpos(title, $1) > 0
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrRepository, err)
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	return items, nil
}

// Update replaces all mutable fields of the row identified by doc.ID.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (bool, error) {
	const q = `
		UPDATE documents
		SET title = $1, location = $2, author = $3, tags = $4, creation_duration = $5
		WHERE id = $6
	`
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return false, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}

	res, err := r.db.ExecContext(ctx, q,
		doc.Title,
		doc.Location,
		doc.Author,
		tags,
		durationValue(doc.CreationDuration),
		doc.ID,
	)
	if err != nil {
		return false, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	return n > 0, nil
}

// Delete removes a document by id and reports whether a row was deleted.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", repository.ErrRepository, err)
	}
	return n > 0, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d        model.Document
		location sql.NullString
		author   sql.NullString
		tags     []byte
		duration sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.Title, &location, &author, &tags, &duration); err != nil {
		return nil, err
	}
	if location.Valid {
		d.Location = &location.String
	}
	if author.Valid {
		d.Author = &author.String
	}
	if tags != nil {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if duration.Valid {
		dur := time.Duration(duration.Int64)
		d.CreationDuration = &dur
	}
	return &d, nil
}

// marshalTags encodes tags as a JSONB value. The JSON array keeps the
// caller-supplied order across the persistence round-trip.
func marshalTags(tags []string) (any, error) {
	if tags == nil {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

func durationValue(d *time.Duration) any {
	if d == nil {
		return nil
	}
	return int64(*d)
}
