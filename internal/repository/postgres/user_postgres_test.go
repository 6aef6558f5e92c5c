package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"catalogapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "email", "name", "role", "created_at"}).
			AddRow("user-1", "admin@example.com", "Admin", "ADMIN", time.Now().UTC())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id = ?").
			WithArgs("user-1").
			WillReturnRows(rows)

		u, err := repo.FindByID(ctx, "user-1")

		assert.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, model.RoleAdmin, u.Role)
		assert.True(t, u.IsAdmin())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE user_id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)

	rows := sqlmock.NewRows([]string{"user_id", "email", "name", "role", "created_at"}).
		AddRow("user-2", "user@example.com", "User", "REGULAR", time.Now().UTC())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
		WithArgs("user@example.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "user@example.com")

	assert.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, model.RoleRegular, u.Role)
	assert.False(t, u.IsAdmin())
}
