package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// The API only reads users; rows are seeded out of band.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByID fetches a user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, userID string) (*model.User, error) {
	const q = `
		SELECT user_id, email, name, role, created_at
		FROM users
		WHERE user_id = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, userID))
}

// FindByEmail fetches a user by exact email match.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
		SELECT user_id, email, name, role, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.UserID, &u.Email, &u.Name, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
