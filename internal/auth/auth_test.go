package auth

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalogapi/internal/model"
	repoMocks "catalogapi/internal/repository/mocks"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, userID string, role model.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "user@example.com",
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp(mUsers *repoMocks.MockUserRepository, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	m := NewMiddleware(testSecret, mUsers)

	handlers := []fiber.Handler{m.Protect()}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		id, _ := FromCtx(c)
		return c.SendString(id.UserID)
	})

	app.Get("/protected", handlers...)
	return app
}

func TestMiddleware_Protect(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		app := newProtectedApp(new(repoMocks.MockUserRepository))

		req := httptest.NewRequest("GET", "/protected", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed token", func(t *testing.T) {
		app := newProtectedApp(new(repoMocks.MockUserRepository))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-jwt")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		app := newProtectedApp(new(repoMocks.MockUserRepository))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, "other-secret", "user-1", model.RoleRegular))
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)
		app := newProtectedApp(mUsers)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, testSecret, "ghost", model.RoleRegular))
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token resolves identity", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", mock.Anything, "user-1").
			Return(&model.User{UserID: "user-1", Email: "user@example.com", Role: model.RoleRegular}, nil)
		app := newProtectedApp(mUsers)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, testSecret, "user-1", model.RoleRegular))
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Run("role allowed", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", mock.Anything, "admin-1").
			Return(&model.User{UserID: "admin-1", Role: model.RoleAdmin}, nil)
		app := newProtectedApp(mUsers, RequireRoles(model.RoleAdmin))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, testSecret, "admin-1", model.RoleAdmin))
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("role denied", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", mock.Anything, "user-1").
			Return(&model.User{UserID: "user-1", Role: model.RoleRegular}, nil)
		app := newProtectedApp(mUsers, RequireRoles(model.RoleAdmin))

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, testSecret, "user-1", model.RoleRegular))
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("without protect it denies", func(t *testing.T) {
		app := fiber.New()
		app.Get("/admin", RequireRoles(model.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		req := httptest.NewRequest("GET", "/admin", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
