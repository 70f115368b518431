package analytics

import (
	anasvc "agriconnect-backend/internal/application/analytics"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *anasvc.Service
}

// List GET /api/analytics?metric=[&period=]
func (h *Handlers) List(c *fiber.Ctx) error {
	rows, err := h.Service.Query(c.UserContext(), c.Query("metric"), c.Query("period"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"analytics": rows})
}

// Latest GET /api/analytics/:metric/latest
func (h *Handlers) Latest(c *fiber.Ctx) error {
	row, err := h.Service.Latest(c.UserContext(), c.Params("metric"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"analytics": row})
}

// Increment POST /api/analytics/increment (admin)
func (h *Handlers) Increment(c *fiber.Ctx) error {
	var in anasvc.IncrementInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	row, err := h.Service.Increment(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"analytics": row})
}
