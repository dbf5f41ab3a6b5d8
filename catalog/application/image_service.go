package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/imagevault/imagevault/shared/blob"
	"github.com/imagevault/imagevault/shared/db"
	"github.com/rs/zerolog/log"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// ImageService is the catalog's entry point for the edge layer: uploads,
// retrieval, deletion, tagging, listing, search, and filesystem sync.
// Authorization happens before calls reach it; where a decision matters it is
// handed in pre-checked.
type ImageService struct {
	db         *sql.DB
	images     domain.ImageRepository
	tags       domain.TagRepository
	blobs      blob.Store
	vocab      *Vocabulary
	reconciler *Reconciler
}

func NewImageService(sqlDB *sql.DB, images domain.ImageRepository, tags domain.TagRepository, blobs blob.Store) *ImageService {
	return &ImageService{
		db:         sqlDB,
		images:     images,
		tags:       tags,
		blobs:      blobs,
		vocab:      NewVocabulary(tags),
		reconciler: NewReconciler(images, blobs),
	}
}

// Vocabulary exposes the tag vocabulary manager backing this service.
func (s *ImageService) Vocabulary() *Vocabulary {
	return s.vocab
}

// Upload stores the blob, persists a record with its resolved tags, and
// returns the saved record. If the record cannot be persisted after the blob
// was written, the blob is removed again: bytes with no metadata are not an
// acceptable end state.
func (s *ImageService) Upload(ctx context.Context, ownerID int64, content io.Reader, originalName, title, description, rawTagsCSV string) (*domain.ImageRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if len(description) > domain.MaxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidArgument, domain.MaxDescriptionLen)
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidArgument)
	}

	storageName, err := s.blobs.Put(ctx, content, filepath.Ext(originalName))
	if err != nil {
		return nil, err
	}

	record := &domain.ImageRecord{
		Title:        title,
		StorageName:  storageName,
		OriginalName: originalName,
		Description:  description,
		UploadedAt:   timeNow(),
		OwnerID:      ownerID,
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.images.Create(txCtx, record); err != nil {
			return err
		}

		for _, segment := range strings.Split(rawTagsCSV, ",") {
			if NormalizeTagName(segment) == "" {
				continue
			}
			tag, err := s.vocab.FindOrCreate(txCtx, segment)
			if err != nil {
				return err
			}
			if err := s.vocab.Attach(txCtx, record.ID, tag); err != nil {
				return err
			}
			record.Tags = append(record.Tags, *tag)
		}

		return nil
	})
	if err != nil {
		if _, delErr := s.blobs.DeleteIfExists(ctx, storageName); delErr != nil {
			log.Error().Err(delErr).Str("storageName", storageName).Msg("Failed to roll back blob after record failure")
		}
		return nil, err
	}

	return record, nil
}

// Retrieve returns an image's bytes and the content type inferred from its
// storage name. An indexed record whose blob has gone missing is an
// inconsistency and surfaces as not-found rather than being repaired here.
func (s *ImageService) Retrieve(ctx context.Context, id int64) ([]byte, string, error) {
	record, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.blobs.Get(ctx, record.StorageName)
	if errors.Is(err, blob.ErrBlobNotFound) {
		return nil, "", fmt.Errorf("%w: blob %q missing for image %d", domain.ErrNotFound, record.StorageName, id)
	}
	if err != nil {
		return nil, "", err
	}

	return data, ContentTypeFor(record.StorageName), nil
}

// Delete removes an image's blob (best-effort) and its record, then collects
// any tags the deletion orphaned.
func (s *ImageService) Delete(ctx context.Context, id int64, decision domain.AuthDecision) error {
	if !decision.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, decision.Reason)
	}

	record, err := s.images.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tags, err := s.tags.TagsForImage(ctx, id)
	if err != nil {
		return err
	}

	// A racing or retried delete may have removed the blob already; that is
	// fine, and a failed removal does not block dropping the record.
	if _, err := s.blobs.DeleteIfExists(ctx, record.StorageName); err != nil {
		log.Warn().Err(err).Str("storageName", record.StorageName).Msg("Failed to delete blob; removing record anyway")
	}

	if err := s.images.Delete(ctx, id); err != nil {
		return err
	}

	for _, tag := range tags {
		s.vocab.CollectIfOrphaned(ctx, tag.ID)
	}

	return nil
}

// AddTag resolves a raw tag name and attaches it to the image.
func (s *ImageService) AddTag(ctx context.Context, imageID int64, rawName string) (*domain.Tag, error) {
	if _, err := s.images.GetByID(ctx, imageID); err != nil {
		return nil, err
	}

	var tag *domain.Tag
	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		tag, err = s.vocab.FindOrCreate(txCtx, rawName)
		if err != nil {
			return err
		}
		return s.vocab.Attach(txCtx, imageID, tag)
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// RemoveTag detaches a tag from an image, garbage-collecting the tag when the
// image was its last reference.
func (s *ImageService) RemoveTag(ctx context.Context, imageID, tagID int64) error {
	if _, err := s.images.GetByID(ctx, imageID); err != nil {
		return err
	}
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		return err
	}

	return s.vocab.Detach(ctx, imageID, tagID)
}

// UpdateDescription replaces an image's description.
func (s *ImageService) UpdateDescription(ctx context.Context, id int64, description string, decision domain.AuthDecision) error {
	if !decision.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, decision.Reason)
	}

	return s.images.UpdateDescription(ctx, id, description)
}

// AddToIndex manually indexes a blob that is already present in the content
// directory. A storage name the index already knows is a conflict, not an
// update.
func (s *ImageService) AddToIndex(ctx context.Context, ownerID int64, storageName, title, originalName string) (*domain.ImageRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}

	_, err := s.images.GetByStorageName(ctx, storageName)
	if err == nil {
		return nil, fmt.Errorf("%w: storage name %q already indexed", domain.ErrConflict, storageName)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	record := &domain.ImageRecord{
		Title:        title,
		StorageName:  storageName,
		OriginalName: originalName,
		UploadedAt:   timeNow(),
		OwnerID:      ownerID,
	}
	if err := s.images.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// ListPage returns one page of the scoped catalog, newest first, merged with
// any unindexed blobs in the content directory. Synthesized entries are owned
// by the acting user when the scope is catalog-wide.
func (s *ImageService) ListPage(ctx context.Context, scope domain.Scope, actorID int64, page, pageSize int) (*Page, error) {
	if err := validatePageArgs(page, pageSize); err != nil {
		return nil, err
	}

	merged, err := s.reconciler.Merge(ctx, scope, synthOwner(scope, actorID))
	if err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, merged); err != nil {
		return nil, err
	}

	return paginate(merged, page, pageSize), nil
}

// SearchPage returns one page of the records matching the query, newest
// first. An empty query behaves exactly like ListPage.
func (s *ImageService) SearchPage(ctx context.Context, scope domain.Scope, actorID int64, query string, page, pageSize int) (*Page, error) {
	if err := validatePageArgs(page, pageSize); err != nil {
		return nil, err
	}

	merged, err := s.reconciler.Merge(ctx, scope, synthOwner(scope, actorID))
	if err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, merged); err != nil {
		return nil, err
	}

	matched := filterByQuery(merged, query, scope.EntireCatalog())
	return paginate(matched, page, pageSize), nil
}

// Sync persists records for unindexed blobs and returns how many were
// created.
func (s *ImageService) Sync(ctx context.Context, ownerID int64) (int, error) {
	return s.reconciler.Sync(ctx, ownerID)
}

// loadTags fetches tag associations for every indexed record in the slice.
// Synthesized records (ID zero) have nothing to load.
func (s *ImageService) loadTags(ctx context.Context, images []*domain.ImageRecord) error {
	for _, img := range images {
		if img.ID == 0 {
			continue
		}
		tags, err := s.tags.TagsForImage(ctx, img.ID)
		if err != nil {
			return err
		}
		img.Tags = tags
	}
	return nil
}

func synthOwner(scope domain.Scope, actorID int64) int64 {
	if scope.EntireCatalog() {
		return actorID
	}
	return scope.OwnerID
}

// ContentTypeFor infers a content type from a storage name's extension.
// Anything unrecognized, including video files, is served as image/jpeg.
func ContentTypeFor(storageName string) string {
	switch strings.ToLower(filepath.Ext(storageName)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
