package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mercato/server/internal/model"
)

// UserRepo defines the interface for user repository operations
type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetOrCreateByEmail(ctx context.Context, email string, role model.Role) (model.User, error)
}

type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo instance
func NewUserRepo(db *sql.DB) UserRepo {
	return &userRepo{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `
		SELECT id, email, role, is_verified, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `
		SELECT id, email, role, is_verified, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetOrCreateByEmail retrieves a user by email or creates an unverified one
// with the given role if it doesn't exist. An existing user keeps its
// original role.
func (r *userRepo) GetOrCreateByEmail(ctx context.Context, email string, role model.Role) (model.User, error) {
	// Try to insert first, using ON CONFLICT DO NOTHING
	query := `
		INSERT INTO users (email, role)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, email, string(role))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	// Now select the user (whether it was just created or already existed)
	return r.GetByEmail(ctx, email)
}

func (r *userRepo) scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	var idStr, roleStr string
	err := row.Scan(
		&idStr,
		&user.Email,
		&roleStr,
		&user.IsVerified,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, fmt.Errorf("user: %w", ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse user ID: %w", err)
	}
	user.Role, err = model.ParseRole(roleStr)
	if err != nil {
		return model.User{}, fmt.Errorf("user %s: %w", user.ID, err)
	}
	return user, nil
}
