package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// MediaStore is the media collaborator boundary: the core stores only the
// returned reference string, never the bytes.
type MediaStore interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectKey builds a unique storage key, keeping the extension hint so CDNs
// can infer a content type.
func objectKey(prefix, ext string) string {
	return path.Join(prefix, uuid.NewString()+ext)
}
