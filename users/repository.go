package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/imagevault/imagevault/shared/db"
)

// SQLiteUserRepository stores accounts in the shared SQLite database.
type SQLiteUserRepository struct {
	db *sql.DB
}

func NewUserRepository(sqlDB *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		db: sqlDB,
	}
}

const insertUserQuery = `
	INSERT INTO users (username, password_hash, role, created_at)
	VALUES (?, ?, ?, ?)
`

// Create persists a new user and assigns its ID
func (r *SQLiteUserRepository) Create(ctx context.Context, u *User) error {
	if u == nil {
		return fmt.Errorf("user cannot be nil")
	}

	executor := db.GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, insertUserQuery,
		u.Username,
		u.PasswordHash,
		u.Role,
		u.CreatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: username %q already taken", domain.ErrConflict, u.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user insert ID: %w", err)
	}
	u.ID = id

	return nil
}

const getUserByUsernameQuery = `
	SELECT id, username, password_hash, role, created_at
	FROM users
	WHERE username = ?
`

// GetByUsername retrieves a user by username
func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	executor := db.GetExecutor(ctx, r.db)

	var u User
	err := executor.QueryRowContext(ctx, getUserByUsernameQuery, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

const getUserByIDQuery = `
	SELECT id, username, password_hash, role, created_at
	FROM users
	WHERE id = ?
`

// GetByID retrieves a user by ID
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	executor := db.GetExecutor(ctx, r.db)

	var u User
	err := executor.QueryRowContext(ctx, getUserByIDQuery, id).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &u, nil
}
