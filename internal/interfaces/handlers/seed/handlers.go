package seed

import (
	seedsvc "agriconnect-backend/internal/application/seed"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *seedsvc.Service
}

// Usage GET /api/seed
func (h *Handlers) Usage(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{"message": "Use POST method to seed the database", "endpoint": "/api/seed"})
}

// Run POST /api/seed
func (h *Handlers) Run(c *fiber.Ctx) error {
	res, err := h.Service.Run(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	log.Info().Bool("admin_created", res.AdminCreated).Int("listings", res.ListingsCount).Msg("database seeded")
	return response.OK(c, fiber.Map{
		"success": true,
		"message": "Database seeded successfully",
		"data":    res,
	})
}
