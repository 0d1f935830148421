package repositories

import "context"

// DocumentStore is the gateway to the flat key-value object store holding one
// JSON document per entity. It performs no caching and no retries; every
// failure surfaces to the caller, categorized but otherwise untouched.
type DocumentStore interface {
	// Get retrieves the document at key and unmarshals it into dest.
	// Returns domain.ErrNotFound if no document exists at key.
	Get(ctx context.Context, key string, dest any) error

	// Put stores doc at key as UTF-8 JSON, replacing any existing document.
	Put(ctx context.Context, key string, doc any) error

	// Delete removes the document at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key beginning with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
