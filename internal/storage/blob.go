package storage

import (
	"context"
	"io"
)

// BlobStore is the narrow interface the post layer uses to talk to
// object storage. Upload returns the public URL of the stored blob;
// Delete takes that URL back.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, blobURL string) error
}
