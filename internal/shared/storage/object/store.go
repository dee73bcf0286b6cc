package object

import (
	"context"
	"io"
)

// ObjectStore saves and retrieves binary objects such as uploaded resumes,
// extracted text and exported PDFs.
type ObjectStore interface {
	// Save stores r under a generated key in userID's namespace.
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey stores r at an explicit key, overwriting any existing object.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
