package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload validation errors. Handlers map these to 415/413.
var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrTooLarge        = errors.New("file exceeds maximum size")
)

// BlobStore persists uploaded image files under generated unique names.
type BlobStore interface {
	// Save validates the declared content type and true streamed size,
	// stores the file and returns its generated name. Partial writes are
	// cleaned up on every failure path.
	Save(ctx context.Context, r io.Reader, filename, contentType string, declaredSize int64) (string, error)

	// Delete removes the named object. Returns false when the object is
	// absent or removal fails; deletion failures never propagate.
	Delete(ctx context.Context, name string) bool

	// LocalPath returns a filesystem path for the named object so that
	// subprocess-based recognizers can read it. cleanup is non-nil when a
	// temporary copy was materialized.
	LocalPath(ctx context.Context, name string) (path string, cleanup func(), err error)
}

const uploadChunkSize = 64 * 1024

// sniffImageType maps well-known magic bytes to a MIME type.
// Returns "" when the header is too short or unrecognized; the check is
// advisory and ambiguity degrades to trusting the declared type.
func sniffImageType(head []byte) string {
	if len(head) >= 3 && bytes.Equal(head[:3], []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg"
	}
	if len(head) >= 4 && bytes.Equal(head[:4], []byte{0x89, 0x50, 0x4E, 0x47}) {
		return "image/png"
	}
	if len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return ""
}

// jpeg and jpg are distinct entries in the allow-list but the same format on disk.
func sameImageType(a, b string) bool {
	norm := func(t string) string {
		if t == "image/jpg" {
			return "image/jpeg"
		}
		return t
	}
	return norm(a) == norm(b)
}

func typeAllowed(allowed []string, contentType string) bool {
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}

// uniqueName generates a collision-resistant file name, preserving the
// original extension or inferring one from the content type.
func uniqueName(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		switch contentType {
		case "image/jpeg", "image/jpg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".jpg"
		}
	}
	return strings.ReplaceAll(uuid.New().String(), "-", "") + ext
}
