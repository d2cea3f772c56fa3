// Package store defines the document-store contract the rest of the
// service is written against: single-document writes, one-shot queries,
// an all-or-nothing batch delete, and change notification hooks. The
// store is the only source of truth; everything callers hold is a
// disposable mirror of query results.
package store

import (
	"context"
	"errors"
)

// Fields is the schemaless field set of a document.
type Fields map[string]interface{}

// Query selects documents by equality match, optionally sorted. When a
// sort is requested the store owns the ordering; callers must not
// re-sort results.
type Query struct {
	Filter    Fields
	SortField string
	SortDesc  bool
}

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("document not found")
)

// Store is the remote document-store contract. All writes are
// last-writer-wins: no optimistic-concurrency token is exchanged.
type Store interface {
	// Add inserts a new document and returns its store-assigned key.
	Add(ctx context.Context, collection string, doc interface{}) (string, error)

	// Set fully overwrites the document at id, creating it if absent.
	Set(ctx context.Context, collection, id string, doc interface{}) error

	// Update overwrites only the given fields of an existing document.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Delete removes a single document. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, collection, id string) error

	// BatchDelete removes the listed documents as one atomic batch:
	// either every listed document is gone or none are.
	BatchDelete(ctx context.Context, collection string, ids []string) error

	// Get runs a one-shot query and decodes the full result set into
	// out, which must be a pointer to a slice.
	Get(ctx context.Context, collection string, q Query, out interface{}) error

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int64, error)
}

// Notifier receives the name of a collection after every successful
// write to it. Implementations fan the event out to live subscribers.
type Notifier interface {
	Notify(collection string)
}
