package user

import (
	usersvc "agriconnect-backend/internal/application/user"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/constants"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const notFound = "User not found"

// Handlers serve /api/users. Password hashes never leave the domain type.
type Handlers struct {
	Service  *usersvc.Service
	Sessions *middleware.SessionStore // optional; signs the user out everywhere on delete or password change
}

func (h *Handlers) signOutEverywhere(c *fiber.Ctx, userID string) {
	if err := h.Sessions.DestroyUser(c.UserContext(), userID); err != nil {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("user_id", userID).Msg("session invalidation failed")
	}
}

// List GET /api/users?role=
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.List(c.UserContext(), c.Query("role"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"users": users})
}

// Create POST /api/users registers a seller or buyer without signing in.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in usersvc.RegisterInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	u, err := h.Service.Register(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"user": u})
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	u, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"user": u})
}

// Update PATCH /api/users/:id (the user themself or an admin, enforced by the router).
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	body, err := request.Map(c)
	if err != nil {
		return response.FromError(c, err)
	}
	opts := usersvc.UpdateOptions{RequireCurrentPassword: actor.Role != constants.Admin}
	u, err := h.Service.Update(c.UserContext(), id, body, opts)
	if err != nil {
		return response.FromError(c, err)
	}
	if _, ok := body["password"]; ok {
		h.signOutEverywhere(c, id.String())
	}
	return response.OK(c, fiber.Map{"user": u})
}

// Delete DELETE /api/users/:id (admin only, enforced by the router).
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id, middleware.ActorID(c)); err != nil {
		return response.FromError(c, err)
	}
	h.signOutEverywhere(c, id.String())
	return response.OK(c, fiber.Map{"message": "User deleted successfully"})
}

// Rating GET /api/users/:id/rating
func (h *Handlers) Rating(c *fiber.Ctx) error {
	id, err := request.ID(c, "id", notFound)
	if err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Rating(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, r)
}
