package document

import (
	"context"
	"time"
)

// ObjectStorageService abstracts the object store used for deal documents
// and vehicle photos. Implementations live in infrastructure/storage.
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned URL a client can PUT a file to,
	// together with the instant at which the URL stops being valid.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned URL for fetching a stored object.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// Upload writes data directly to storage. Used for server-generated
	// files such as receipts and job sheets; client uploads go through
	// presigned URLs instead.
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether an object is present in storage.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
