package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/influmatch/backend/internal/apperr"
	"github.com/influmatch/backend/internal/auth"
	"github.com/influmatch/backend/internal/models"
	"github.com/influmatch/backend/internal/repositories"
)

const testSecret = "test-secret"

type fakeUserSource struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserSource) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func authTestApp(users *fakeUserSource) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			ae := apperr.From(err)
			return c.Status(ae.HTTPStatus()).JSON(fiber.Map{"error": ae.Code})
		},
	})
	app.Get("/me", RequireAuth(testSecret, users), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": c.Locals(LocalRole)})
	})
	return app
}

func TestRequireAuthLoadsUser(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserSource{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Role: models.RoleInfluencer},
	}}
	app := authTestApp(users)

	token, err := auth.GenerateJWT(testSecret, userID, models.RoleInfluencer, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthRejectsDeletedUser(t *testing.T) {
	userID := uuid.New()
	app := authTestApp(&fakeUserSource{users: map[uuid.UUID]*models.User{}})

	// the token is valid but the account behind it is gone
	token, err := auth.GenerateJWT(testSecret, userID, models.RoleInfluencer, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthUsesRoleFromRow(t *testing.T) {
	userID := uuid.New()
	// role changed to advertiser after the token was minted
	users := &fakeUserSource{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Role: models.RoleAdvertiser},
	}}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			ae := apperr.From(err)
			return c.SendStatus(ae.HTTPStatus())
		},
	})
	app.Get("/adv", RequireAuth(testSecret, users), RequireRole(models.RoleAdvertiser), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token, err := auth.GenerateJWT(testSecret, userID, models.RoleInfluencer, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/adv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	app := authTestApp(&fakeUserSource{users: map[uuid.UUID]*models.User{}})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
