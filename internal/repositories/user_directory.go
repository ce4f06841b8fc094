package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messaging-service/internal/apperrors"
	"messaging-service/internal/models"
)

// UserDirectory is the read-only account lookup the messaging core needs
// from the wider platform.
type UserDirectory interface {
	Exists(ctx context.Context, userID int) (bool, error)
	Get(ctx context.Context, userID int) (models.User, error)
}

// UserDirectoryRepo is a sqlx implementation of UserDirectory.
type UserDirectoryRepo struct {
	db *sqlx.DB
}

// NewUserDirectoryRepo constructs a UserDirectoryRepo.
func NewUserDirectoryRepo(db *sqlx.DB) *UserDirectoryRepo {
	return &UserDirectoryRepo{db: db}
}

// Exists reports whether the account exists.
func (r *UserDirectoryRepo) Exists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID)
	return exists, err
}

// Get fetches an account by id.
func (r *UserDirectoryRepo) Get(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, is_moderator FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("user not found")
	}
	return user, err
}
