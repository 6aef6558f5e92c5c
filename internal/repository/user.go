package repository

import (
	"context"

	"catalogapi/internal/model"
)

// UserRepository defines read access to the user table. Users are seeded out
// of band; the API never writes them.
type UserRepository interface {
	// FindByID returns a user by ID. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, userID string) (*model.User, error)

	// FindByEmail returns a user by exact email match.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
