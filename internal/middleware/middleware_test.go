package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
)

const secret = "mw-secret"

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zaptest.NewLogger(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(RequestLogger(log))

	app.Get("/me", JWTAuth(secret), func(c *fiber.Ctx) error {
		actor, err := Actor(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": actor.ID, "role": actor.Role})
	})
	app.Get("/clients", JWTAuth(secret), RequireRoles(models.RoleClient), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/fields", func(c *fiber.Ctx) error {
		return apperrors.ValidationFields("Validation error", map[string][]string{"title": {"is required"}})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("db exploded")
	})
	return app
}

func call(t *testing.T, app *fiber.App, path string, mutate func(*http.Request)) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func TestJWTAuth(t *testing.T) {
	app := newApp(t)
	uid := uuid.New()
	token, err := utils.SignJWT(secret, uid, models.RoleWorker, 5)
	require.NoError(t, err)

	code, body := call(t, app, "/me", bearer(token))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uid.String(), body["id"])
	assert.Equal(t, "worker", body["role"])

	code, body = call(t, app, "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assert.Equal(t, http.StatusOK, code)

	code, body = call(t, app, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	other, err := utils.SignJWT("other-secret", uid, models.RoleWorker, 5)
	require.NoError(t, err)
	code, _ = call(t, app, "/me", bearer(other))
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireRoles(t *testing.T) {
	app := newApp(t)

	worker, err := utils.SignJWT(secret, uuid.New(), models.RoleWorker, 5)
	require.NoError(t, err)
	client, err := utils.SignJWT(secret, uuid.New(), models.RoleClient, 5)
	require.NoError(t, err)

	code, body := call(t, app, "/clients", bearer(worker))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden: insufficient role", body["message"])

	code, _ = call(t, app, "/clients", bearer(client))
	assert.Equal(t, http.StatusOK, code)
}

func TestErrorHandler(t *testing.T) {
	app := newApp(t)

	code, body := call(t, app, "/fields", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation error", body["message"])
	assert.Contains(t, body["errors"], "title")

	code, body = call(t, app, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Server error", body["message"])

	code, _ = call(t, app, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
