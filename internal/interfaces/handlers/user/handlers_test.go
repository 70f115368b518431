package user

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"agriconnect-backend/internal/application/analytics"
	"agriconnect-backend/internal/application/auth"
	usersvc "agriconnect-backend/internal/application/user"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/constants"
	"agriconnect-backend/internal/pkg/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*fiber.App, *gorm.DB) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	h := &Handlers{Service: &usersvc.Service{Store: store, Analytics: &analytics.Service{Store: store}}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Actor-Id"); id != "" {
			middleware.SetSessionUser(c, auth.SessionUser{ID: id, Role: c.Get("X-Actor-Role")})
		}
		return c.Next()
	})
	app.Get("/api/users", h.List)
	app.Post("/api/users", h.Create)
	app.Get("/api/users/:id", h.Get)
	app.Patch("/api/users/:id", middleware.RequireSelfOrRole("id", constants.Admin), h.Update)
	app.Delete("/api/users/:id", h.Delete)
	app.Get("/api/users/:id/rating", h.Rating)
	return app, db
}

func send(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}, string) {
	t.Helper()
	return sendAs(t, app, nil, method, path, body)
}

// sendAs signs the request in as actor when it is non-nil.
func sendAs(t *testing.T, app *fiber.App, actor *domain.User, method, path string, body interface{}) (int, map[string]interface{}, string) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("X-Actor-Id", actor.ID.String())
		req.Header.Set("X-Actor-Role", actor.Role)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out, string(raw)
}

func registration() map[string]interface{} {
	return map[string]interface{}{
		"name": "Seller 1", "email": "Seller1@Example.com", "password": "password123",
		"role": "seller", "city": "Guntur",
	}
}

func TestCreate_HashesAndHidesPassword(t *testing.T) {
	app, db := setupUserTest(t)

	status, out, raw := send(t, app, "POST", "/api/users", registration())
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotContains(t, raw, "password")
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "seller1@example.com", user["email"])

	var stored domain.User
	require.NoError(t, db.First(&stored, "email = ?", "seller1@example.com").Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	var metric domain.Analytics
	require.NoError(t, db.First(&metric, "metric = ?", domain.MetricUsersRegistered).Error)
	assert.Equal(t, float64(1), metric.Value)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	app, _ := setupUserTest(t)
	status, _, _ := send(t, app, "POST", "/api/users", registration())
	require.Equal(t, fiber.StatusCreated, status)

	status, out, _ := send(t, app, "POST", "/api/users", registration())
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Email already in use", out["error"])
}

func TestCreate_RejectsAdminAndShortPassword(t *testing.T) {
	app, _ := setupUserTest(t)
	body := registration()
	body["role"] = "admin"
	status, out, _ := send(t, app, "POST", "/api/users", body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Role must be seller or buyer", out["error"])

	body = registration()
	body["password"] = "123"
	status, out, _ = send(t, app, "POST", "/api/users", body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 6 characters", out["error"])
}

func TestUpdate_RoleImmutable(t *testing.T) {
	app, db := setupUserTest(t)
	u := testutil.User(t, db, "Buyer 1", "buyer1@example.com", "buyer")

	status, out, _ := sendAs(t, app, u, "PATCH", "/api/users/"+u.ID.String(), map[string]interface{}{"role": "admin"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Role cannot be changed", out["error"])

	status, out, _ = sendAs(t, app, u, "PATCH", "/api/users/"+u.ID.String(), map[string]interface{}{"city": "Mumbai", "role": "buyer"})
	require.Equal(t, fiber.StatusOK, status)
	user := out["user"].(map[string]interface{})
	assert.Equal(t, "Mumbai", user["city"])
	assert.Equal(t, "Buyer 1", user["name"])
}

func TestUpdate_OnlySelfOrAdmin(t *testing.T) {
	app, db := setupUserTest(t)
	victim := testutil.User(t, db, "Admin", "admin@agriconnect.com", "admin")
	other := testutil.User(t, db, "Buyer 1", "buyer1@example.com", "buyer")
	takeover := map[string]interface{}{"email": "mine@evil.example", "password": "hijacked1"}

	status, _, _ := send(t, app, "PATCH", "/api/users/"+victim.ID.String(), takeover)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _, _ = sendAs(t, app, other, "PATCH", "/api/users/"+victim.ID.String(), takeover)
	assert.Equal(t, fiber.StatusForbidden, status)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", victim.ID).Error)
	assert.Equal(t, "admin@agriconnect.com", stored.Email)
	assert.Equal(t, "x", stored.PasswordHash)

	status, out, _ := sendAs(t, app, victim, "PATCH", "/api/users/"+other.ID.String(), map[string]interface{}{"city": "Pune"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Pune", out["user"].(map[string]interface{})["city"])
}

func TestUpdate_OwnPasswordNeedsCurrent(t *testing.T) {
	app, db := setupUserTest(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{Name: "Buyer 1", Email: "buyer1@example.com", Role: "buyer", PasswordHash: string(hash)}
	require.NoError(t, db.Create(u).Error)
	path := "/api/users/" + u.ID.String()

	status, out, _ := sendAs(t, app, u, "PATCH", path, map[string]interface{}{"password": "newsecret"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Current password is required", out["error"])

	status, out, _ = sendAs(t, app, u, "PATCH", path, map[string]interface{}{"password": "newsecret", "currentPassword": "guess"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Current password is incorrect", out["error"])

	status, _, _ = sendAs(t, app, u, "PATCH", path, map[string]interface{}{"password": "newsecret", "currentPassword": "password123"})
	require.Equal(t, fiber.StatusOK, status)
	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))
	assert.NotNil(t, stored.PasswordChangedAt)
}

func TestListAndRating(t *testing.T) {
	app, db := setupUserTest(t)
	seller := testutil.User(t, db, "Seller 1", "seller1@example.com", "seller")
	buyer := testutil.User(t, db, "Buyer 1", "buyer1@example.com", "buyer")
	for _, r := range []int{4, 5} {
		require.NoError(t, db.Create(&domain.Review{ReviewerID: buyer.ID, RevieweeID: seller.ID, Rating: r}).Error)
	}

	_, out, _ := send(t, app, "GET", "/api/users?role=seller", nil)
	assert.Len(t, out["users"], 1)

	status, out, _ := send(t, app, "GET", "/api/users/"+seller.ID.String()+"/rating", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 4.5, out["average"])
	assert.Equal(t, float64(2), out["count"])
}

func TestGetAndDelete_NotFound(t *testing.T) {
	app, db := setupUserTest(t)
	status, out, _ := send(t, app, "GET", "/api/users/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "User not found", out["error"])

	u := testutil.User(t, db, "Buyer 1", "buyer1@example.com", "buyer")
	status, _, _ = send(t, app, "DELETE", "/api/users/"+u.ID.String(), nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _, _ = send(t, app, "DELETE", "/api/users/"+u.ID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
