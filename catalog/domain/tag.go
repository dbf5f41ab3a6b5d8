package domain

import "context"

// Tag is a deduplicated vocabulary entry. Name is always the normalized form
// (trimmed, lower-cased) and is unique across all tags.
type Tag struct {
	ID   int64
	Name string
}

type TagRepository interface {
	// Create persists a new tag and assigns its ID. Returns ErrConflict if
	// a tag with the same name already exists.
	Create(ctx context.Context, tag *Tag) error

	// GetByID retrieves a tag by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Tag, error)

	// FindByName looks up a tag by its normalized name. Returns ErrNotFound
	// if absent.
	FindByName(ctx context.Context, name string) (*Tag, error)

	// Delete removes a tag and any remaining associations.
	Delete(ctx context.Context, id int64) error

	// Attach adds an image-tag association. Attaching an existing pair is a
	// no-op.
	Attach(ctx context.Context, imageID, tagID int64) error

	// Detach removes an image-tag association if present.
	Detach(ctx context.Context, imageID, tagID int64) error

	// ImageCount returns the number of images currently associated with the
	// tag.
	ImageCount(ctx context.Context, tagID int64) (int, error)

	// TagsForImage returns the tags attached to an image, ordered by name.
	TagsForImage(ctx context.Context, imageID int64) ([]Tag, error)
}
