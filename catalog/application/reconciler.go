package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/imagevault/imagevault/shared/blob"
	"github.com/rs/zerolog/log"
)

// Reconciler merges the metadata index with whatever is actually present in
// the content directory. The index is the source of truth for any storage
// name it already knows; blobs it does not know get records synthesized for
// them, either in memory (Merge) or persisted (Sync).
type Reconciler struct {
	images domain.ImageRepository
	blobs  blob.Store
}

func NewReconciler(images domain.ImageRepository, blobs blob.Store) *Reconciler {
	return &Reconciler{
		images: images,
		blobs:  blobs,
	}
}

// Merge returns the union of indexed records in scope and on-disk blobs,
// newest first. Records synthesized for unindexed blobs exist only in the
// returned slice and are owned by synthOwner. A directory-listing failure is
// not fatal here: the indexed records are returned alone.
func (r *Reconciler) Merge(ctx context.Context, scope domain.Scope, synthOwner int64) ([]*domain.ImageRecord, error) {
	indexed, err := r.fetchScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	entries, err := r.blobs.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to list content directory; returning indexed records only")
		return indexed, nil
	}

	known := make(map[string]bool, len(indexed))
	for _, img := range indexed {
		known[img.StorageName] = true
	}

	merged := make([]*domain.ImageRecord, 0, len(indexed)+len(entries))
	merged = append(merged, indexed...)
	for _, entry := range entries {
		if known[entry.StorageName] {
			continue
		}
		merged = append(merged, synthesizeRecord(entry, synthOwner))
	}

	sortByUploadTime(merged)
	return merged, nil
}

// Sync persists records for every recognized blob the index does not know
// yet, owned by ownerID, and returns how many were created. Running Sync
// again over the same directory creates nothing. Unlike Merge, a
// directory-listing failure is fatal: the operator asked for it explicitly.
func (r *Reconciler) Sync(ctx context.Context, ownerID int64) (int, error) {
	entries, err := r.blobs.List(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, entry := range entries {
		_, err := r.images.GetByStorageName(ctx, entry.StorageName)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}

		record := synthesizeRecord(entry, ownerID)
		if err := r.images.Create(ctx, record); err != nil {
			// A concurrent sync may have indexed the same blob first.
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}

func (r *Reconciler) fetchScope(ctx context.Context, scope domain.Scope) ([]*domain.ImageRecord, error) {
	if scope.EntireCatalog() {
		return r.images.ListAll(ctx)
	}
	return r.images.ListByOwner(ctx, scope.OwnerID)
}

// synthesizeRecord builds an in-memory record for a blob the index has never
// seen: the title is the file name without its extension, the upload time is
// the file's modification time (now, if unavailable).
func synthesizeRecord(entry blob.Entry, ownerID int64) *domain.ImageRecord {
	title := entry.StorageName
	if idx := strings.LastIndex(title, "."); idx >= 0 {
		title = title[:idx]
	}

	uploadedAt := entry.ModTime
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	return &domain.ImageRecord{
		Title:        title,
		StorageName:  entry.StorageName,
		OriginalName: entry.StorageName,
		Description:  "",
		UploadedAt:   uploadedAt,
		OwnerID:      ownerID,
	}
}

// sortByUploadTime orders newest first; the sort is stable so equal
// timestamps keep their insertion order.
func sortByUploadTime(images []*domain.ImageRecord) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].UploadedAt.After(images[j].UploadedAt)
	})
}
