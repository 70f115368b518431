package request

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, err := ID(c, "id", "Thing not found")
		if err != nil {
			return response.FromError(c, err)
		}
		return c.SendString(id.String())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/things/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/things/6f1c2e0a-3b4d-4c5e-8f9a-0b1c2d3e4f50", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMap_RejectsNonObject(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		if _, err := Map(c); err != nil {
			return response.FromError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	for body, want := range map[string]int{
		`{"a":1}`: fiber.StatusNoContent,
		`[1,2]`:   fiber.StatusBadRequest,
		`null`:    fiber.StatusBadRequest,
		`{`:       fiber.StatusBadRequest,
	} {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, body)
	}
}
