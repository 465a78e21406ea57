package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vaxlabs/vmvault/pkg/model"
)

// ErrBlobExists is returned when an upload would overwrite an existing
// object. Keys are collision-resistant, so hitting this indicates a
// retried request rather than two distinct uploads.
var ErrBlobExists = errors.New("blob already exists")

// ErrBlobNotFound is returned when a download or delete targets a key
// with no stored object.
var ErrBlobNotFound = errors.New("blob not found")

// Store abstracts the object storage holding compressed VM images.
type Store interface {
	// Upload writes data under key and returns a stable URL for the
	// stored object. It must fail with ErrBlobExists rather than
	// overwrite.
	Upload(ctx context.Context, key string, data []byte) (string, error)

	// Download returns the stored bytes for key.
	Download(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// DeriveKey builds a storage key for an uploaded file. A nanosecond
// timestamp plus a random component keeps concurrent uploads of the
// same filename from colliding.
func DeriveKey(originalFilename string, tag model.CodecTag) string {
	return fmt.Sprintf("%d-%s-%s%s",
		time.Now().UnixNano(),
		uuid.NewString()[:8],
		sanitizeFilename(originalFilename),
		tag.Ext(),
	)
}

// sanitizeFilename strips any path components and characters that are
// awkward in object names.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
