package analytics

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	anasvc "agriconnect-backend/internal/application/analytics"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics(t *testing.T) {
	now := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	h := &Handlers{Service: &anasvc.Service{
		Store: repository.NewStore(testutil.NewDB(t)),
		Now:   func() time.Time { return now },
	}}
	app := fiber.New()
	app.Get("/api/analytics", h.List)
	app.Get("/api/analytics/:metric/latest", h.Latest)
	app.Post("/api/analytics/increment", h.Increment)

	do := func(method, path, body string) (int, map[string]interface{}) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	status, _ := do("GET", "/api/analytics/listings_created/latest", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, out := do("POST", "/api/analytics/increment", `{"metric":"listings_created"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), out["analytics"].(map[string]interface{})["value"])

	status, out = do("POST", "/api/analytics/increment", `{"metric":"listings_created","delta":4}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(5), out["analytics"].(map[string]interface{})["value"])

	_, out = do("GET", "/api/analytics?metric=listings_created&period=daily", "")
	assert.Len(t, out["analytics"], 1)

	status, out = do("GET", "/api/analytics/listings_created/latest", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "daily", out["analytics"].(map[string]interface{})["period"])

	status, _ = do("GET", "/api/analytics?metric=listings_created&period=hourly", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = do("POST", "/api/analytics/increment", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
