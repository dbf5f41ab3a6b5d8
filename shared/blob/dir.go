package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DirStore implements Store on a single flat directory. Storage names are
// random 128-bit UUIDs plus the original extension; collision probability is
// treated as negligible and no retry is attempted.
type DirStore struct {
	root string
}

// NewDirStore creates a blob store rooted at the given directory. The
// directory itself is created lazily on the first Put.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Root returns the content directory path.
func (s *DirStore) Root() string {
	return s.root
}

// Put writes content under a fresh UUID-based storage name.
func (s *DirStore) Put(_ context.Context, content io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	storageName := uuid.NewString() + strings.ToLower(ext)

	dst, err := os.Create(filepath.Join(s.root, storageName))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write blob content: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to close blob file: %w", err)
	}

	return storageName, nil
}

// Get returns the byte content of a blob.
func (s *DirStore) Get(_ context.Context, storageName string) ([]byte, error) {
	path, err := s.blobPath(storageName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", storageName, err)
	}
	return data, nil
}

// DeleteIfExists removes a blob, reporting whether anything was deleted.
func (s *DirStore) DeleteIfExists(_ context.Context, storageName string) (bool, error) {
	path, err := s.blobPath(storageName)
	if err != nil {
		return false, err
	}

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete blob %s: %w", storageName, err)
	}
	return true, nil
}

// List enumerates recognized media files in the content directory.
func (s *DirStore) List(_ context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list content directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !IsMediaFile(de.Name()) {
			continue
		}

		entry := Entry{StorageName: de.Name()}
		if info, err := de.Info(); err == nil {
			entry.ModTime = info.ModTime()
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// blobPath resolves a storage name inside the root, rejecting names that
// would escape the flat directory.
func (s *DirStore) blobPath(storageName string) (string, error) {
	if storageName == "" || storageName != filepath.Base(storageName) {
		return "", fmt.Errorf("invalid storage name: %q", storageName)
	}
	return filepath.Join(s.root, storageName), nil
}

var _ Store = (*DirStore)(nil)
