package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "agriconnect-backend/internal/application/auth"
	usersvc "agriconnect-backend/internal/application/user"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) (*fiber.App, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	store := repository.NewStore(testutil.NewDB(t))
	authService := &authsvc.Service{Users: store.Users, Secret: []byte("test-secret")}
	sessions := middleware.NewSessionStore(rdb)
	h := &Handlers{
		Auth:     authService,
		Users:    &usersvc.Service{Store: store},
		Sessions: sessions,
		Config:   middleware.SessionConfig{},
	}

	app := fiber.New()
	app.Use(middleware.Session(sessions), middleware.Bearer(authService))
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Post("/api/auth/logout", h.Logout)
	app.Get("/api/auth/me", h.Me)
	app.Get("/api/auth/session", h.Session)
	return app, rdb
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func register(t *testing.T, app *fiber.App) *http.Response {
	return postJSON(t, app, "/api/auth/register", map[string]interface{}{
		"name": "Buyer 1", "email": "buyer1@example.com", "password": "password123", "role": "buyer",
	})
}

func TestRegister_SignsIn(t *testing.T) {
	app, rdb := setupAuthTest(t)

	resp := register(t, app)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	out := decode(t, resp)
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "buyer", user["role"])
	assert.NotEmpty(t, out["token"])
	assert.NotContains(t, user, "passwordHash")

	ctx := context.Background()
	exists, err := rdb.Exists(ctx, middleware.SessionRedisPrefix+cookie.Value).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
	isMember, err := rdb.SIsMember(ctx, middleware.UserSessionsPrefix+user["id"].(string), cookie.Value).Result()
	require.NoError(t, err)
	assert.True(t, isMember)

	resp = register(t, app)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already in use", decode(t, resp)["error"])
}

func TestLogin_FailsClosed(t *testing.T) {
	app, _ := setupAuthTest(t)
	require.Equal(t, fiber.StatusCreated, register(t, app).StatusCode)

	resp := postJSON(t, app, "/api/auth/login", map[string]string{"email": "buyer1@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	wrongPassword := decode(t, resp)["error"]

	resp = postJSON(t, app, "/api/auth/login", map[string]string{"email": "nobody@example.com", "password": "password123"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, wrongPassword, decode(t, resp)["error"])
	assert.Equal(t, "Invalid email or password", wrongPassword)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{"email": "buyer1@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMe_SessionAndLogout(t *testing.T) {
	app, rdb := setupAuthTest(t)
	require.Equal(t, fiber.StatusCreated, register(t, app).StatusCode)

	resp := postJSON(t, app, "/api/auth/login", map[string]string{"email": "buyer1@example.com", "password": "password123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	token := decode(t, resp)["token"].(string)

	get := func(path string, setup func(*http.Request)) *http.Response {
		req := httptest.NewRequest("GET", path, nil)
		if setup != nil {
			setup(req)
		}
		r, err := app.Test(req)
		require.NoError(t, err)
		return r
	}
	withCookie := func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value}) }

	resp = get("/api/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", decode(t, get("/api/auth/session", nil))["status"])

	resp = get("/api/auth/me", withCookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "buyer1@example.com", decode(t, resp)["user"].(map[string]interface{})["email"])
	assert.Equal(t, "authenticated", decode(t, get("/api/auth/session", withCookie))["status"])

	resp = get("/api/auth/me", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	withCookie(req)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	exists, err := rdb.Exists(context.Background(), middleware.SessionRedisPrefix+cookie.Value).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	resp = get("/api/auth/me", withCookie)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
