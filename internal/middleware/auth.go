package middleware

import (
	"agriconnect-backend/internal/application/auth"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireRole answers 401 without a user and 403 when the user's role is not listed.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := GetUser(c)
		if u == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, r := range roles {
			if u.Role == r {
				return c.Next()
			}
		}
		return response.Forbidden(c, "User is Forbidden from performing this action")
	}
}

// RequireSelfOrRole lets through the user whose id is the route param, or
// anyone holding one of roles.
func RequireSelfOrRole(param string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := GetUser(c)
		if u == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if u.ID == c.Params(param) {
			return c.Next()
		}
		for _, r := range roles {
			if u.Role == r {
				return c.Next()
			}
		}
		return response.Forbidden(c, "User is Forbidden from performing this action")
	}
}

// GetUser returns the authenticated user, or nil.
func GetUser(c *fiber.Ctx) *auth.SessionUser {
	u, err := auth.VerifyUser(c.Locals(userLocal))
	if err != nil {
		return nil
	}
	return u
}

// ActorID is the authenticated user's id, used to attribute audit events.
func ActorID(c *fiber.Ctx) *uuid.UUID {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil
	}
	return &id
}
