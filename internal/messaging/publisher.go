package messaging

import (
	"context"
	"errors"
)

// ErrMessaging is the single error kind for broker failures (unreachable
// broker, rejected publish, serialization failure). Publish never retries
// internally; the caller decides what a failed publish means.
var ErrMessaging = errors.New("messaging error")

// DocumentUploadedEvent is the point-in-time fact emitted once per
// successfully persisted document. It references the record by id and
// snapshots title and location; it is never mutated and may outlive the
// record it refers to.
//
// Wire format: UTF-8 JSON {documentId, title, location}, delivered as a
// persistent message on a durable queue via the default exchange.
type DocumentUploadedEvent struct {
	DocumentID int64   `json:"documentId"`
	Title      string  `json:"title"`
	Location   *string `json:"location"`
}

// Publisher hands a document-uploaded event to the broker. Implementations
// must fail fast when ctx is already cancelled, without attempting I/O.
// Delivery is at-least-once at best: consumers must be idempotent with
// respect to DocumentID.
type Publisher interface {
	PublishDocumentUploaded(ctx context.Context, event DocumentUploadedEvent) error
}
