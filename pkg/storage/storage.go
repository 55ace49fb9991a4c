// Package storage is the blob-store boundary: uploaded audio and
// images live behind it, addressed by an opaque reference string that
// the relational rows persist.
package storage

import (
	"context"
	"io"
)

type BlobStore interface {
	// Put stores the blob under key and returns the reference to
	// persist.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// Get opens the blob for the given reference.
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
	// Delete removes the blob; used to clean up after a failed insert.
	Delete(ctx context.Context, ref string) error
}
