package auth

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// UserLocalKey is the key under which the authenticated identity is stored
// in Fiber's context locals.
const UserLocalKey = "auth_user"

// Claims is the JWT payload the API accepts: subject is the user ID.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller passed to handlers via context locals.
type Identity struct {
	UserID string
	Email  string
	Role   model.Role
}

// Middleware verifies bearer tokens and resolves the caller identity before
// protected handlers run. The token's user must still exist in the user
// table; a valid signature alone is not enough.
type Middleware struct {
	secret []byte
	users  repository.UserRepository
}

// NewMiddleware constructs the auth middleware with its dependencies.
func NewMiddleware(secret string, users repository.UserRepository) *Middleware {
	return &Middleware{secret: []byte(secret), users: users}
}

// Protect returns a handler that rejects requests without a valid bearer
// token. On success the Identity is stored in locals for downstream use.
func (m *Middleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		})
		if err != nil || !parsed.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		user, err := m.users.FindByID(c.UserContext(), claims.Subject)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found")
			}
			return err
		}

		c.Locals(UserLocalKey, Identity{
			UserID: user.UserID,
			Email:  user.Email,
			Role:   user.Role,
		})

		return c.Next()
	}
}

// RequireRoles gates a route to callers holding one of the given roles.
// It must run after Protect.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := FromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// FromCtx extracts the Identity stored by Protect.
func FromCtx(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(UserLocalKey).(Identity)
	return id, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
