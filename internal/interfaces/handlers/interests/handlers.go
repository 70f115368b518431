package interests

import (
	intsvc "agriconnect-backend/internal/application/interests"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const notFound = "Interest not found"

type Handlers struct {
	Service *intsvc.Service
}

// List GET /api/interests?listing=|buyer=
func (h *Handlers) List(c *fiber.Ctx) error {
	interests, err := h.Service.List(c.UserContext(), c.Query("listing"), c.Query("buyer"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"interests": interests})
}

// Create POST /api/interests. A repeat for the same pair answers 409 with the existing row.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in intsvc.CreateInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	interest, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"interest": interest})
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	interest, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"interest": interest})
}

// Update PATCH /api/interests/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	body, err := request.Map(c)
	if err != nil {
		return response.FromError(c, err)
	}
	interest, err := h.Service.Update(c.UserContext(), id, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"interest": interest})
}

func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Interest deleted successfully"})
}
