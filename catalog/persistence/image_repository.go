package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/imagevault/imagevault/shared/db"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.ImageRepository using SQL database (SQLite)
type SQLiteImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLiteImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db: sqlDB,
	}
}

const insertImageQuery = `
	INSERT INTO images (title, storage_name, original_name, description, uploaded_at, owner_id)
	VALUES (?, ?, ?, ?, ?, ?)
`

// Create persists a new image record and assigns its ID
func (r *SQLiteImageRepository) Create(ctx context.Context, img *domain.ImageRecord) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.Title == "" {
		return fmt.Errorf("%w: image title cannot be empty", domain.ErrInvalidArgument)
	}

	if img.StorageName == "" {
		return fmt.Errorf("%w: storage name cannot be empty", domain.ErrInvalidArgument)
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, insertImageQuery,
		img.Title,
		img.StorageName,
		img.OriginalName,
		img.Description,
		img.UploadedAt.UTC(),
		img.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: storage name %q already indexed", domain.ErrConflict, img.StorageName)
		}
		return fmt.Errorf("failed to insert image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get image insert ID: %w", err)
	}
	img.ID = id

	return nil
}

const getImageQuery = `
	SELECT i.id, i.title, i.storage_name, i.original_name, i.description, i.uploaded_at, i.owner_id, u.username
	FROM images i
	JOIN users u ON u.id = i.owner_id
	WHERE i.id = ?
`

// GetByID retrieves a single image record by ID
func (r *SQLiteImageRepository) GetByID(ctx context.Context, id int64) (*domain.ImageRecord, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row imageRow
	err := executor.QueryRowContext(ctx, getImageQuery, id).Scan(
		&row.ID,
		&row.Title,
		&row.StorageName,
		&row.OriginalName,
		&row.Description,
		&row.UploadedAt,
		&row.OwnerID,
		&row.OwnerName,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return row.toDomain(), nil
}

const getImageByStorageNameQuery = `
	SELECT i.id, i.title, i.storage_name, i.original_name, i.description, i.uploaded_at, i.owner_id, u.username
	FROM images i
	JOIN users u ON u.id = i.owner_id
	WHERE i.storage_name = ?
`

// GetByStorageName retrieves a single image record by its storage name
func (r *SQLiteImageRepository) GetByStorageName(ctx context.Context, storageName string) (*domain.ImageRecord, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row imageRow
	err := executor.QueryRowContext(ctx, getImageByStorageNameQuery, storageName).Scan(
		&row.ID,
		&row.Title,
		&row.StorageName,
		&row.OriginalName,
		&row.Description,
		&row.UploadedAt,
		&row.OwnerID,
		&row.OwnerName,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: image with storage name %q", domain.ErrNotFound, storageName)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image by storage name: %w", err)
	}

	return row.toDomain(), nil
}

const updateDescriptionQuery = `
	UPDATE images SET description = ? WHERE id = ?
`

// UpdateDescription replaces the description of an existing record
func (r *SQLiteImageRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	if len(description) > domain.MaxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", domain.ErrInvalidArgument, domain.MaxDescriptionLen)
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, updateDescriptionQuery, description, id)
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
	}

	return nil
}

const deleteImageQuery = `
	DELETE FROM images WHERE id = ?
`

// Delete removes a record; the join-table rows go with it via cascade
func (r *SQLiteImageRepository) Delete(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, deleteImageQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
	}

	return nil
}

const listByOwnerQuery = `
	SELECT i.id, i.title, i.storage_name, i.original_name, i.description, i.uploaded_at, i.owner_id, u.username
	FROM images i
	JOIN users u ON u.id = i.owner_id
	WHERE i.owner_id = ?
	ORDER BY i.uploaded_at DESC, i.id DESC
`

// ListByOwner returns one owner's records ordered by upload time descending
func (r *SQLiteImageRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.ImageRecord, error) {
	return r.queryImages(ctx, listByOwnerQuery, ownerID)
}

const listAllQuery = `
	SELECT i.id, i.title, i.storage_name, i.original_name, i.description, i.uploaded_at, i.owner_id, u.username
	FROM images i
	JOIN users u ON u.id = i.owner_id
	ORDER BY i.uploaded_at DESC, i.id DESC
`

// ListAll returns every record in the catalog ordered by upload time descending
func (r *SQLiteImageRepository) ListAll(ctx context.Context) ([]*domain.ImageRecord, error) {
	return r.queryImages(ctx, listAllQuery)
}

func (r *SQLiteImageRepository) queryImages(ctx context.Context, query string, args ...any) ([]*domain.ImageRecord, error) {
	executor := db.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := make([]*domain.ImageRecord, 0)
	for rows.Next() {
		var row imageRow
		err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.StorageName,
			&row.OriginalName,
			&row.Description,
			&row.UploadedAt,
			&row.OwnerID,
			&row.OwnerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}

	return images, nil
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	ID           int64
	Title        string
	StorageName  string
	OriginalName string
	Description  string
	UploadedAt   sql.NullTime
	OwnerID      int64
	OwnerName    string
}

// toDomain converts an imageRow to a domain.ImageRecord, handling nullable times
func (ir *imageRow) toDomain() *domain.ImageRecord {
	img := &domain.ImageRecord{
		ID:           ir.ID,
		Title:        ir.Title,
		StorageName:  ir.StorageName,
		OriginalName: ir.OriginalName,
		Description:  ir.Description,
		OwnerID:      ir.OwnerID,
		OwnerName:    ir.OwnerName,
	}

	if ir.UploadedAt.Valid {
		img.UploadedAt = ir.UploadedAt.Time
	}

	return img
}

// isUniqueViolation reports whether the driver error is a UNIQUE constraint
// failure. modernc's driver does not export a typed error for this.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
