package transactions

import (
	txsvc "agriconnect-backend/internal/application/transactions"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const notFound = "Transaction not found"

type Handlers struct {
	Service *txsvc.Service
}

// List GET /api/transactions?seller=&buyer=&listing=
func (h *Handlers) List(c *fiber.Ctx) error {
	txs, err := h.Service.List(c.UserContext(), txsvc.Query{
		Seller:  c.Query("seller"),
		Buyer:   c.Query("buyer"),
		Listing: c.Query("listing"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"transactions": txs})
}

// Create POST /api/transactions opens a pending transaction for an accepted interest.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in txsvc.CreateInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	t, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"transaction": t})
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	t, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"transaction": t})
}

// Complete POST /api/transactions/:id/complete
func (h *Handlers) Complete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	t, err := h.Service.Complete(c.UserContext(), id, middleware.ActorID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"transaction": t})
}

// Cancel POST /api/transactions/:id/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	t, err := h.Service.Cancel(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"transaction": t})
}
