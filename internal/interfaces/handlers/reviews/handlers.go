package reviews

import (
	revsvc "agriconnect-backend/internal/application/reviews"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *revsvc.Service
}

// List GET /api/reviews?reviewee=|reviewer=|listing=
func (h *Handlers) List(c *fiber.Ctx) error {
	reviews, err := h.Service.List(c.UserContext(), revsvc.Query{
		Reviewee: c.Query("reviewee"),
		Reviewer: c.Query("reviewer"),
		Listing:  c.Query("listing"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"reviews": reviews})
}

// Create POST /api/reviews
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in revsvc.CreateInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	review, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"review": review})
}
