package auth

import (
	authsvc "agriconnect-backend/internal/application/auth"
	usersvc "agriconnect-backend/internal/application/user"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/middleware"
	"agriconnect-backend/internal/pkg/request"
	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Auth     *authsvc.Service
	Users    *usersvc.Service
	Sessions *middleware.SessionStore
	Config   middleware.SessionConfig
}

// Login POST /api/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var in authsvc.LoginInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, authsvc.ErrEmailPasswordRequired)
	}
	u, err := h.Auth.Authenticate(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	body, err := h.startSession(c, u)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, body)
}

// Register POST /api/auth/register: creates the account and signs it in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var in usersvc.RegisterInput
	if err := request.Bind(c, &in); err != nil {
		return response.FromError(c, err)
	}
	u, err := h.Users.Register(c.UserContext(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	body, err := h.startSession(c, u)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, body)
}

// startSession rotates the session id, stores the sanitised user and issues a token.
func (h *Handlers) startSession(c *fiber.Ctx, u *domain.User) (fiber.Map, error) {
	ctx := c.UserContext()
	if old := middleware.GetSessionID(c); old != "" {
		var prev string
		if cur := middleware.GetUser(c); cur != nil {
			prev = cur.ID
		}
		if err := h.Sessions.Destroy(ctx, old, prev); err != nil {
			log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("old session cleanup failed")
		}
	}

	su := authsvc.FromUser(u)
	sid := middleware.RegenerateSessionID(c)
	if err := h.Sessions.Save(ctx, sid, su); err != nil {
		return nil, err
	}
	middleware.SetSessionUser(c, su)
	c.Cookie(middleware.SessionCookie(h.Config, sid))

	token, err := h.Auth.IssueToken(su)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", su.ID).Str("role", su.Role).Msg("user signed in")
	return fiber.Map{"user": su, "token": token}, nil
}

// Logout POST /api/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sid := middleware.GetSessionID(c)
	var userID string
	if u := middleware.GetUser(c); u != nil {
		userID = u.ID
	}
	if err := h.Sessions.Destroy(c.UserContext(), sid, userID); err != nil {
		return response.FromError(c, err)
	}
	middleware.DestroySession(c)
	c.Cookie(middleware.SessionCookie(h.Config, ""))
	return response.OK(c, fiber.Map{"message": "Logged out successfully"})
}

// Me GET /api/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	u, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"user": u})
}

// Session GET /api/auth/session reports the auth state without failing.
func (h *Handlers) Session(c *fiber.Ctx) error {
	u := middleware.GetUser(c)
	if u == nil {
		return response.OK(c, fiber.Map{"status": authsvc.StatusUnauthenticated, "user": nil})
	}
	return response.OK(c, fiber.Map{"status": authsvc.StatusAuthenticated, "user": u})
}
