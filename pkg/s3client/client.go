// Package s3client is the narrow object-store surface the toolkit
// consumes: list, head, copy, put, get, remove over bucket/key
// addressing. The orchestrator adds no retry logic of its own; the
// SDK's defaults stand.
package s3client

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound marks a missing object. Implementations return errors
// matching IsNotFound for head/get on absent keys.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// Client is the object-store backend.
type Client interface {
	// List returns all objects under prefix, with full keys.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// Head returns metadata for a single key.
	Head(ctx context.Context, bucket, key string) (*ObjectInfo, error)
	// Upload writes body to bucket/key with the given storage class.
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType, storageClass string) error
	// Download writes the object to w.
	Download(ctx context.Context, bucket, key string, w io.WriterAt) error
	// Copy performs a server-side copy.
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey, storageClass string) error
	// Delete removes a single object.
	Delete(ctx context.Context, bucket, key string) error
}
