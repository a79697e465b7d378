package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// PhotoStorage defines the interface for progress-photo object storage.
// Clients upload and fetch photos directly against presigned URLs; the
// backend only ever handles object keys.
type PhotoStorage interface {
	// PresignUpload creates a temporary URL allowing a direct PUT of the photo.
	PresignUpload(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// PresignDownload creates a temporary URL allowing a direct GET of the photo.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes a photo from the bucket.
	DeleteObject(ctx context.Context, objectKey string) error
}
