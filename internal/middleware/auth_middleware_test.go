package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	users     map[string]*models.User
	err       error
	lastToken string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, service.ErrUnauthorized
	}
	return user, nil
}

func newProtectedApp(auth Authenticator) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(auth), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": CurrentUserID(c)})
	})
	app.Get("/admin", AuthMiddleware(auth), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/open", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	auth := &stubAuthenticator{users: map[string]*models.User{
		"student-token": {ID: 5, Role: models.RoleStudent},
		"admin-token":   {ID: 1, Role: models.RoleAdmin},
	}}
	app := newProtectedApp(auth)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Token student-token"))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer unknown"))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", "Bearer student-token"))
	assert.Equal(t, "student-token", auth.lastToken)
}

func TestAuthMiddleware_BlockedUser(t *testing.T) {
	app := newProtectedApp(&stubAuthenticator{err: service.ErrUserBlocked})
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/me", "Bearer any"))
}

func TestRequireRole(t *testing.T) {
	auth := &stubAuthenticator{users: map[string]*models.User{
		"student-token": {ID: 5, Role: models.RoleStudent},
		"admin-token":   {ID: 1, Role: models.RoleAdmin},
	}}
	app := newProtectedApp(auth)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", "Bearer student-token"))
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", "Bearer admin-token"))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/open", ""))
}
