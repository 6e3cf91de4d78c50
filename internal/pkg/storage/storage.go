package storage

import (
	"context"
	"io"
)

// Storage is the object store used for activity-log exports
type Storage interface {
	// Put stores the object at key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object at key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored at key
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL the object is served from
	GetURL(key string) string
}
