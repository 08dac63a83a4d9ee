// Package storage keeps uploaded event images in S3 compatible object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore stores objects and hands out time limited read links.
type ObjectStore interface {
	// Put uploads body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// PresignGet returns a signed GET URL valid for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
