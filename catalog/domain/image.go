package domain

import (
	"context"
	"time"
)

// ImageRecord is the catalog's metadata entry for one stored image. The ID is
// assigned by the record store and is zero for records synthesized in memory
// from a filesystem scan that have not been indexed yet.
type ImageRecord struct {
	ID           int64
	Title        string
	StorageName  string
	OriginalName string
	Description  string
	UploadedAt   time.Time
	OwnerID      int64
	OwnerName    string

	// Tags are loaded explicitly via TagRepository.TagsForImage; they are
	// never lazily populated.
	Tags []Tag
}

// MaxDescriptionLen bounds the description field.
const MaxDescriptionLen = 10000

type ImageRepository interface {
	// Create persists a new record and assigns its ID.
	Create(ctx context.Context, img *ImageRecord) error

	// GetByID retrieves a record by its surrogate ID. Returns ErrNotFound
	// if no such record exists.
	GetByID(ctx context.Context, id int64) (*ImageRecord, error)

	// GetByStorageName retrieves a record by its unique storage name.
	// Returns ErrNotFound if no such record exists.
	GetByStorageName(ctx context.Context, storageName string) (*ImageRecord, error)

	// UpdateDescription replaces the description of an existing record.
	UpdateDescription(ctx context.Context, id int64, description string) error

	// Delete removes a record and its tag associations.
	Delete(ctx context.Context, id int64) error

	// ListByOwner returns one owner's records ordered by upload time
	// descending.
	ListByOwner(ctx context.Context, ownerID int64) ([]*ImageRecord, error)

	// ListAll returns every record in the catalog ordered by upload time
	// descending, with owner names populated.
	ListAll(ctx context.Context) ([]*ImageRecord, error)
}
