package listings

import (
	"agriconnect-backend/internal/application/listingevents"
	listsvc "agriconnect-backend/internal/application/listings"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const notFound = "Listing not found"

type Handlers struct {
	Service *listsvc.Service
	Audit   *listingevents.Service
}

// List GET /api/listings?type=&status=&seller=&q=
func (h *Handlers) List(c *fiber.Ctx) error {
	listings, err := h.Service.List(c.UserContext(), listsvc.ListParams{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Seller: c.Query("seller"),
		Query:  c.Query("q"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"listings": listings})
}

// Create POST /api/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	body, err := request.Map(c)
	if err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.Service.Create(c.UserContext(), body, middleware.ActorID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"listing": listing})
}

// Get GET /api/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"listing": listing})
}

// Update PATCH /api/listings/:id, a partial merge.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	body, err := request.Map(c)
	if err != nil {
		return response.FromError(c, err)
	}
	listing, err := h.Service.Update(c.UserContext(), id, body, middleware.ActorID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"listing": listing})
}

// Delete DELETE /api/listings/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id, middleware.ActorID(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Listing deleted successfully"})
}

// Events GET /api/listings/:id/events
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	events, err := h.Audit.ForListing(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"events": events})
}
