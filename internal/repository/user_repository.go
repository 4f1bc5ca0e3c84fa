package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// UserRepo reads staff accounts for authentication.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByUsername returns the active staff account with the given username.
// Returns ErrUserNotFound when no such account exists.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.StaffUser, error) {
	const q = `SELECT id, username, password_hash, display_name, role, is_active, created_at
               FROM staff_users WHERE username = ? AND is_active = 1`
	var u model.StaffUser
	err := r.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
