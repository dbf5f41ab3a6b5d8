package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/rs/zerolog/log"
)

// Vocabulary manages the deduplicated tag vocabulary: normalization,
// find-or-create semantics, attachment bookkeeping, and garbage collection of
// tags nothing references anymore.
type Vocabulary struct {
	tags domain.TagRepository
}

func NewVocabulary(tags domain.TagRepository) *Vocabulary {
	return &Vocabulary{tags: tags}
}

// NormalizeTagName returns the canonical form of a tag name: trimmed and
// lower-cased. Normalizing an already-normalized name returns it unchanged.
func NormalizeTagName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FindOrCreate resolves a raw tag name to its vocabulary entry, creating the
// entry on first use.
func (v *Vocabulary) FindOrCreate(ctx context.Context, rawName string) (*domain.Tag, error) {
	name := NormalizeTagName(rawName)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name cannot be empty", domain.ErrInvalidArgument)
	}

	tag, err := v.tags.FindByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	tag = &domain.Tag{Name: name}
	err = v.tags.Create(ctx, tag)
	if err == nil {
		return tag, nil
	}

	// Two requests can race to create the same name; the loser re-reads
	// instead of failing.
	if errors.Is(err, domain.ErrConflict) {
		return v.tags.FindByName(ctx, name)
	}

	return nil, err
}

// Attach associates a tag with an image. Attaching an already-attached tag is
// a no-op.
func (v *Vocabulary) Attach(ctx context.Context, imageID int64, tag *domain.Tag) error {
	if tag == nil {
		return fmt.Errorf("tag cannot be nil")
	}
	return v.tags.Attach(ctx, imageID, tag.ID)
}

// Detach removes a tag from an image and garbage-collects the tag when the
// image was its last reference. A failed collection never fails the detach;
// it is logged and left for a later pass.
func (v *Vocabulary) Detach(ctx context.Context, imageID, tagID int64) error {
	if err := v.tags.Detach(ctx, imageID, tagID); err != nil {
		return err
	}

	v.CollectIfOrphaned(ctx, tagID)
	return nil
}

// CollectIfOrphaned deletes the tag if no image references it anymore.
func (v *Vocabulary) CollectIfOrphaned(ctx context.Context, tagID int64) {
	count, err := v.tags.ImageCount(ctx, tagID)
	if err != nil {
		log.Warn().Err(err).Int64("tagID", tagID).Msg("Failed to count tag references; skipping orphan collection")
		return
	}
	if count > 0 {
		return
	}

	if err := v.tags.Delete(ctx, tagID); err != nil {
		log.Warn().Err(err).Int64("tagID", tagID).Msg("Failed to delete orphaned tag")
	}
}
