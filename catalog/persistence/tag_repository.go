package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/imagevault/imagevault/shared/db"
)

var _ domain.TagRepository = (*SQLiteTagRepository)(nil)

// SQLiteTagRepository implements domain.TagRepository using SQL database (SQLite).
// Image-tag associations live in a plain join table with no attributes of its
// own; both directions of the association are answered from it.
type SQLiteTagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new SQLiteTagRepository from a standard sql.DB
func NewTagRepository(sqlDB *sql.DB) *SQLiteTagRepository {
	return &SQLiteTagRepository{
		db: sqlDB,
	}
}

const insertTagQuery = `
	INSERT INTO tags (name) VALUES (?)
`

// Create persists a new tag and assigns its ID
func (r *SQLiteTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if tag == nil {
		return fmt.Errorf("tag cannot be nil")
	}

	if tag.Name == "" {
		return fmt.Errorf("%w: tag name cannot be empty", domain.ErrInvalidArgument)
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, insertTagQuery, tag.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tag %q already exists", domain.ErrConflict, tag.Name)
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get tag insert ID: %w", err)
	}
	tag.ID = id

	return nil
}

const getTagQuery = `
	SELECT id, name FROM tags WHERE id = ?
`

// GetByID retrieves a tag by ID
func (r *SQLiteTagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	executor := db.GetExecutor(ctx, r.db)

	var tag domain.Tag
	err := executor.QueryRowContext(ctx, getTagQuery, id).Scan(&tag.ID, &tag.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tag %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return &tag, nil
}

const findTagByNameQuery = `
	SELECT id, name FROM tags WHERE name = ?
`

// FindByName looks up a tag by its normalized name
func (r *SQLiteTagRepository) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	executor := db.GetExecutor(ctx, r.db)

	var tag domain.Tag
	err := executor.QueryRowContext(ctx, findTagByNameQuery, name).Scan(&tag.ID, &tag.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tag %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tag by name: %w", err)
	}

	return &tag, nil
}

const deleteTagQuery = `
	DELETE FROM tags WHERE id = ?
`

// Delete removes a tag; remaining join rows go with it via cascade
func (r *SQLiteTagRepository) Delete(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, deleteTagQuery, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

const attachTagQuery = `
	INSERT OR IGNORE INTO image_tags (image_id, tag_id) VALUES (?, ?)
`

// Attach adds an image-tag association; attaching an existing pair is a no-op
func (r *SQLiteTagRepository) Attach(ctx context.Context, imageID, tagID int64) error {
	executor := db.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, attachTagQuery, imageID, tagID); err != nil {
		return fmt.Errorf("failed to attach tag %d to image %d: %w", tagID, imageID, err)
	}
	return nil
}

const detachTagQuery = `
	DELETE FROM image_tags WHERE image_id = ? AND tag_id = ?
`

// Detach removes an image-tag association if present
func (r *SQLiteTagRepository) Detach(ctx context.Context, imageID, tagID int64) error {
	executor := db.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, detachTagQuery, imageID, tagID); err != nil {
		return fmt.Errorf("failed to detach tag %d from image %d: %w", tagID, imageID, err)
	}
	return nil
}

const tagImageCountQuery = `
	SELECT COUNT(*) FROM image_tags WHERE tag_id = ?
`

// ImageCount returns the number of images associated with the tag
func (r *SQLiteTagRepository) ImageCount(ctx context.Context, tagID int64) (int, error) {
	executor := db.GetExecutor(ctx, r.db)

	var count int
	if err := executor.QueryRowContext(ctx, tagImageCountQuery, tagID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count images for tag %d: %w", tagID, err)
	}
	return count, nil
}

const tagsForImageQuery = `
	SELECT t.id, t.name
	FROM tags t
	JOIN image_tags it ON it.tag_id = t.id
	WHERE it.image_id = ?
	ORDER BY t.name
`

// TagsForImage returns the tags attached to an image, ordered by name
func (r *SQLiteTagRepository) TagsForImage(ctx context.Context, imageID int64) ([]domain.Tag, error) {
	executor := db.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, tagsForImageQuery, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for image %d: %w", imageID, err)
	}
	defer rows.Close()

	tags := make([]domain.Tag, 0)
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}
