// Package storage persists submission attachments.
package storage

import (
	"context"
	"io"
)

// ObjectStorage stores a blob under a caller-chosen key and returns a
// public URL. No deduplication; callers namespace keys themselves.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}
