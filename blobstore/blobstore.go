package blobstore

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Upload is a new binary waiting to be stored.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// BlobStore persists and removes image binaries in external object
// storage, keyed by product. Store returns the stored reference (object
// key) recorded on the image row.
type BlobStore interface {
	Store(ctx context.Context, productID uuid.UUID, up Upload) (string, error)
	Delete(ctx context.Context, productID uuid.UUID, key string) error
}
