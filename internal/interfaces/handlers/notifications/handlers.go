package notifications

import (
	notifsvc "agriconnect-backend/internal/application/notifications"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// List GET /api/notifications?user=[&unread=true]
func (h *Handlers) List(c *fiber.Ctx) error {
	raw := c.Query("user")
	if raw == "" {
		return response.BadRequest(c, "Please provide a user")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return response.OK(c, fiber.Map{"notifications": []domain.Notification{}})
	}
	ns, err := h.Service.ForUser(c.UserContext(), userID, request.Flag(c, "unread"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"notifications": ns})
}

// Create POST /api/notifications
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in notifsvc.CreateInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	n, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"notification": n})
}

// MarkRead PATCH /api/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", "Notification not found")
	if err != nil {
		return response.FromError(c, err)
	}
	n, err := h.Service.MarkRead(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"notification": n})
}
