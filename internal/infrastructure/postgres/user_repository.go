package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"centavo/internal/domain/user"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, name, password_hash, google_id, avatar_url, created_at, updated_at`

func scanUser(scan func(dest ...any) error) (*user.User, error) {
	var u user.User
	var passwordHash, googleID, avatarURL sql.NullString
	err := scan(
		&u.ID, &u.Username, &u.Email, &u.Name,
		&passwordHash, &googleID, &avatarURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	if googleID.Valid {
		u.GoogleID = &googleID.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	return &u, nil
}

// Create creates a new user. Usernames are stored lowercase.
func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	query := `
		INSERT INTO users (username, email, name, password_hash, google_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(
		ctx, query,
		strings.ToLower(params.Username), params.Email, params.Name,
		params.PasswordHash, params.GoogleID, params.AvatarURL,
	).Scan)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, user.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByUsername retrieves a user by username, case-insensitively
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(username)).Scan)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}

// GetByGoogleID retrieves a user by their Google account ID
func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, googleID).Scan)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}
	return u, nil
}

// Update applies the non-nil fields of params to a user
func (r *UserRepository) Update(ctx context.Context, userID int64, params user.UpdateUserParams) (*user.User, error) {
	query := `
		UPDATE users
		SET email         = COALESCE($2, email),
		    name          = COALESCE($3, name),
		    avatar_url    = COALESCE($4, avatar_url),
		    password_hash = COALESCE($5, password_hash),
		    updated_at    = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(
		ctx, query, userID,
		params.Email, params.Name, params.AvatarURL, params.PasswordHash,
	).Scan)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}
