package files

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, f *File) error
	Get(ctx context.Context, userID, id string) (*File, error)
	ListByFolder(ctx context.Context, userID, folderID string) ([]*File, error)
	Delete(ctx context.Context, userID, id string) error
}

// BlobStore port (interface untuk object storage)
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Fetch retrieves the object into memory, retrying transient failures
	// with exponential backoff. The content type is inferred from the
	// filename extension when the transport reports a generic binary type.
	Fetch(ctx context.Context, key, filename string) (*Blob, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}
