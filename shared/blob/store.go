// Package blob provides flat-directory storage for raw image bytes,
// independent of any catalog metadata.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrBlobNotFound is returned when a requested blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Entry describes one blob observed in the content directory.
type Entry struct {
	StorageName string
	ModTime     time.Time
}

// Store is the contract for blob storage.
type Store interface {
	// Put writes the content under a freshly generated unique storage name
	// that preserves the suggested extension (which may be empty). The
	// backing directory is created if absent.
	Put(ctx context.Context, content io.Reader, ext string) (string, error)

	// Get returns the full byte content of a blob. Returns ErrBlobNotFound
	// if no such blob exists.
	Get(ctx context.Context, storageName string) ([]byte, error)

	// DeleteIfExists removes a blob and reports whether a deletion
	// occurred. Deleting an absent blob is not an error.
	DeleteIfExists(ctx context.Context, storageName string) (bool, error)

	// List enumerates the non-directory entries whose extensions are
	// recognized media types. Unrecognized files are invisible here but
	// stay retrievable through Get.
	List(ctx context.Context) ([]Entry, error)
}

// mediaExtensions are the file extensions eligible for reconciliation.
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".mp4":  true,
}

// IsMediaFile reports whether the file name carries a recognized media
// extension.
func IsMediaFile(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	return mediaExtensions[strings.ToLower(name[idx:])]
}
