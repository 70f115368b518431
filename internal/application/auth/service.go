package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session states reported by GET /api/auth/session.
const (
	StatusLoading         = "loading"
	StatusAuthenticated   = "authenticated"
	StatusUnauthenticated = "unauthenticated"
)

const TokenTTL = 24 * time.Hour

// SessionUser is the sanitised user stored in the session and returned by /me.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// FromUser strips everything but identity from u.
func FromUser(u *domain.User) SessionUser {
	return SessionUser{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// Claims are carried by bearer tokens.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	Users  repository.UserRepository
	Secret []byte
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate checks credentials. Unknown email and wrong password fail the same way.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	u, err := s.Users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs an HS256 token for u.
func (s *Service) IssueToken(u SessionUser) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("auth: SESSION_SECRET is not set")
	}
	now := s.now()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ParseToken verifies a bearer token and returns the user named by its claims.
func (s *Service) ParseToken(token string) (*SessionUser, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, err
	}
	return &SessionUser{ID: claims.Subject, Name: claims.Name, Email: claims.Email, Role: claims.Role}, nil
}

// Resolve verifies a bearer token and reloads its user. Tokens of deleted
// users, and tokens issued before the user's last password change, are
// rejected. Role and identity come from the stored user, not the claims.
func (s *Service) Resolve(ctx context.Context, token string) (*SessionUser, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil || s.Users == nil {
		return nil, ErrNotAuthenticated
	}
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	// iat has second precision.
	if u.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(u.PasswordChangedAt.Truncate(time.Second)) {
		return nil, ErrNotAuthenticated
	}
	su := FromUser(u)
	return &su, nil
}

func (s *Service) parseClaims(token string) (*Claims, error) {
	if len(s.Secret) == 0 {
		return nil, ErrNotAuthenticated
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuedAt())
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrNotAuthenticated
	}
	return claims, nil
}

// VerifyUser validates a session user value from request locals.
func VerifyUser(sessionUser interface{}) (*SessionUser, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	switch u := sessionUser.(type) {
	case *SessionUser:
		if u == nil || u.ID == "" {
			return nil, ErrNotAuthenticated
		}
		return u, nil
	case SessionUser:
		if u.ID == "" {
			return nil, ErrNotAuthenticated
		}
		return &u, nil
	case map[string]interface{}:
		id := str(u["id"])
		if id == "" {
			return nil, ErrNotAuthenticated
		}
		return &SessionUser{ID: id, Name: str(u["name"]), Email: str(u["email"]), Role: str(u["role"])}, nil
	}
	return nil, ErrNotAuthenticated
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
