package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/auth"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// UserSource resolves a token subject to its account row.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAuth validates the bearer token, loads the account behind it and
// stores the caller's id and role in fiber locals for downstream handlers.
// The role comes from the row, not the token, so a token outlives neither
// the account nor a role change.
func RequireAuth(jwtSecret string, users UserSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return apperr.Unauthorized("missing bearer token")
		}

		claims, err := auth.ParseJWT(jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return apperr.Unauthorized("invalid or expired token")
		}

		user, err := users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperr.Unauthorized("unknown user")
			}
			return err
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, user.Role)
		return c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return apperr.Forbidden("insufficient role")
	}
}
