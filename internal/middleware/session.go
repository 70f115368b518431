package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"agriconnect-backend/internal/application/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookieName  = "agriconnect.sid"
	SessionRedisPrefix = "session:"
	UserSessionsPrefix = "user_sessions:"
	sessionMaxAge      = 24 * time.Hour
)

const (
	userLocal      = "user"
	sessionIDLocal = "session_id"
)

// SessionConfig controls the session cookie flags.
type SessionConfig struct {
	AllowCrossSiteDev bool
	IsProduction      bool
}

// SessionStore keeps sanitised users in Redis under session:<id>, and the ids
// of every live session of a user in the set user_sessions:<userId>.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: sessionMaxAge}
}

type sessionData struct {
	User auth.SessionUser `json:"user"`
}

// Load returns the user of session sid, or nil when there is none.
func (s *SessionStore) Load(ctx context.Context, sid string) (*auth.SessionUser, error) {
	if s == nil || sid == "" {
		return nil, nil
	}
	b, err := s.rdb.Get(ctx, SessionRedisPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data sessionData
	if err := json.Unmarshal(b, &data); err != nil || data.User.ID == "" {
		return nil, nil
	}
	return &data.User, nil
}

// Save writes the session and tracks it against the user.
func (s *SessionStore) Save(ctx context.Context, sid string, u auth.SessionUser) error {
	b, err := json.Marshal(sessionData{User: u})
	if err != nil {
		return err
	}
	setKey := UserSessionsPrefix + u.ID
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, SessionRedisPrefix+sid, b, s.ttl)
		p.SAdd(ctx, setKey, sid)
		p.Expire(ctx, setKey, s.ttl)
		return nil
	})
	return err
}

// Destroy removes session sid. userID may be empty when the owner is unknown.
func (s *SessionStore) Destroy(ctx context.Context, sid, userID string) error {
	if sid == "" {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, SessionRedisPrefix+sid)
		if userID != "" {
			p.SRem(ctx, UserSessionsPrefix+userID, sid)
		}
		return nil
	})
	return err
}

// Session loads the cookie session, if any, into Locals.
func Session(store *SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(SessionCookieName)
		// connect-style cookies look like "s:<id>.<signature>"
		if strings.HasPrefix(sid, "s:") {
			sid = strings.SplitN(sid[2:], ".", 2)[0]
		}
		c.Locals(sessionIDLocal, sid)
		if sid == "" {
			return c.Next()
		}
		u, err := store.Load(c.UserContext(), sid)
		if err != nil {
			log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("session load failed")
		}
		if u != nil {
			c.Locals(userLocal, u)
		}
		return c.Next()
	}
}

// GetSessionID returns the current session id (empty when none).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// RegenerateSessionID issues a fresh session id for this request.
func RegenerateSessionID(c *fiber.Ctx) string {
	sid := uuid.NewString()
	c.Locals(sessionIDLocal, sid)
	return sid
}

// SetSessionUser makes u the user of the current request.
func SetSessionUser(c *fiber.Ctx, u auth.SessionUser) {
	c.Locals(userLocal, &u)
}

// DestroySession clears the request's user and session id.
func DestroySession(c *fiber.Ctx) {
	c.Locals(userLocal, nil)
	c.Locals(sessionIDLocal, "")
}

// SessionCookie returns the cookie carrying sid. An empty sid expires the cookie.
func SessionCookie(cfg SessionConfig, sid string) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.AllowCrossSiteDev {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	cookie := &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction || cfg.AllowCrossSiteDev,
		SameSite: sameSite,
	}
	if sid == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}

// DestroyUser removes every session tracked for userID.
func (s *SessionStore) DestroyUser(ctx context.Context, userID string) error {
	if s == nil || userID == "" {
		return nil
	}
	setKey := UserSessionsPrefix + userID
	sids, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, SessionRedisPrefix+sid)
	}
	keys = append(keys, setKey)
	return s.rdb.Del(ctx, keys...).Err()
}
