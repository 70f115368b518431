package middleware

import (
	"errors"
	"strings"

	"agriconnect-backend/internal/application/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Bearer accepts "Authorization: Bearer <jwt>" when no session user is loaded.
// The token's user is reloaded so deleted accounts and stale passwords lose
// access at once. Invalid tokens leave the request anonymous; RequireRole
// decides what that means.
func Bearer(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(userLocal) != nil {
			return c.Next()
		}
		h := c.Get(fiber.HeaderAuthorization)
		if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
			return c.Next()
		}
		u, err := svc.Resolve(c.UserContext(), strings.TrimSpace(h[7:]))
		if err != nil {
			if !errors.Is(err, auth.ErrNotAuthenticated) {
				log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("bearer user lookup failed")
			}
			return c.Next()
		}
		c.Locals(userLocal, u)
		return c.Next()
	}
}
