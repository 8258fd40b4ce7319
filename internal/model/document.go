package model

import "time"

// Document is the metadata record for a managed document.
// This is a pure domain model with no database-specific dependencies or tags;
// it can be used across layers (HTTP, service, messaging) without coupling to
// persistence.
type Document struct {
	// ID is assigned exactly once, by the store, at creation time.
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Location *string  `json:"location,omitempty"`
	Author   *string  `json:"author,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// CreationDuration is a legacy field carried for schema compatibility.
	// Ingestion never populates it.
	CreationDuration *time.Duration `json:"creationDuration,omitempty"`
}

// Field length bounds enforced before any persistence attempt.
const (
	MaxTitleLen    = 256
	MaxLocationLen = 2048
	MaxAuthorLen   = 256
)
