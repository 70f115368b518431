package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"agriconnect-backend/internal/application/analytics"
	"agriconnect-backend/internal/application/emails"
	policies "agriconnect-backend/internal/application/policies/user"
	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"
	"agriconnect-backend/internal/pkg/constants"
	"agriconnect-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var errEmailInUse = apperror.Conflict("Email already in use")

// Service holds the store and side-channels for user operations.
type Service struct {
	Store       *repository.Store
	Analytics   *analytics.Service
	EmailSender emails.Sender
}

// RegisterInput is the public registration body.
type RegisterInput struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Role     string  `json:"role" validate:"required"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Pincode  *string `json:"pincode"`
	Bio      *string `json:"bio"`
}

// Register creates a seller or buyer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Invalid(err.Error())
	}
	if !constants.IsSelfServiceRole(in.Role) {
		return nil, apperror.Invalid("Role must be seller or buyer")
	}
	u, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Analytics.Record(ctx, domain.MetricUsersRegistered, 1)
	s.sendWelcome(u)
	return u, nil
}

// CreateWithRole creates a user with any valid role (seeding and admin tooling).
func (s *Service) CreateWithRole(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, apperror.Invalid(err.Error())
	}
	if !constants.IsValidRole(in.Role) {
		return nil, apperror.Invalid("Invalid role")
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return nil, apperror.Invalid("Missing required field: name")
	}
	if !validation.IsValidEmail(email) {
		return nil, apperror.Invalid("Invalid email format")
	}
	if len(in.Password) < validation.MinPasswordLength {
		return nil, apperror.Invalid("Password must be at least 6 characters")
	}

	existing, err := s.Store.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		Pincode:      in.Pincode,
		Bio:          in.Bio,
	}
	if err := s.Store.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailInUse
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) sendWelcome(u *domain.User) {
	if s.EmailSender == nil {
		return
	}
	go func(email, name, role string) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.EmailSender.SendWelcome(ctx, email, name, role); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("welcome e-mail failed")
		}
	}(u.Email, u.Name, u.Role)
}

// List returns users, optionally filtered by role.
func (s *Service) List(ctx context.Context, role string) ([]domain.User, error) {
	filters := repository.Filters{}
	if role != "" {
		if !constants.IsValidRole(role) {
			return nil, apperror.Invalid("Invalid role")
		}
		filters["role"] = role
	}
	return s.Store.Users.FindAll(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.Store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("User not found")
	}
	return u, nil
}

// updatable maps JSON body keys to columns.
var updatable = map[string]string{
	"name":         "name",
	"email":        "email",
	"phone":        "phone",
	"address":      "address",
	"city":         "city",
	"state":        "state",
	"pincode":      "pincode",
	"profileImage": "profile_image",
	"bio":          "bio",
}

// UpdateOptions carry what the caller is allowed to skip.
type UpdateOptions struct {
	// RequireCurrentPassword makes a password change verify "currentPassword".
	// Set for users changing their own account; admins resetting it skip it.
	RequireCurrentPassword bool
}

// Update applies a partial update. Role is immutable; password is re-hashed
// and stamps PasswordChangedAt.
func (s *Service) Update(ctx context.Context, id uuid.UUID, body map[string]interface{}, opts UpdateOptions) (*domain.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r, ok := body["role"]; ok && r != current.Role {
		return nil, apperror.Invalid("Role cannot be changed")
	}

	upd := make(map[string]interface{})
	for key, col := range updatable {
		v, ok := body[key]
		if !ok {
			continue
		}
		str, isStr := validation.String(v)
		if !isStr {
			return nil, apperror.Invalid("Invalid " + key)
		}
		switch key {
		case "name":
			if strings.TrimSpace(str) == "" {
				return nil, apperror.Invalid("Name must be a non-empty string")
			}
			upd[col] = strings.TrimSpace(str)
		case "email":
			email := strings.ToLower(strings.TrimSpace(str))
			if !validation.IsValidEmail(email) {
				return nil, apperror.Invalid("Invalid email format")
			}
			if email != current.Email {
				other, err := s.Store.Users.FindByEmail(ctx, email)
				if err != nil {
					return nil, err
				}
				if other != nil {
					return nil, errEmailInUse
				}
			}
			upd[col] = email
		default:
			if v == nil {
				upd[col] = nil
			} else {
				upd[col] = str
			}
		}
	}
	if p, ok := body["password"]; ok {
		pw, isStr := p.(string)
		if !isStr || len(pw) < validation.MinPasswordLength {
			return nil, apperror.Invalid("Password must be at least 6 characters")
		}
		if opts.RequireCurrentPassword {
			cur, _ := body["currentPassword"].(string)
			if cur == "" {
				return nil, apperror.Invalid("Current password is required")
			}
			if bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(cur)) != nil {
				return nil, apperror.Forbidden("Current password is incorrect")
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
		if err != nil {
			return nil, err
		}
		upd["password_hash"] = string(hash)
		upd["password_changed_at"] = time.Now()
	}
	if len(upd) == 0 {
		return nil, apperror.Invalid("No valid update fields provided")
	}

	u, err := s.Store.Users.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailInUse
		}
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("User not found")
	}
	return u, nil
}

// Delete removes a user. actorID is the signed-in admin, when known.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	u, err := s.Store.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperror.NotFound("User not found")
	}
	if err := policies.ValidateRemoval(ctx, s.Store.Users, policies.ValidateRemovalParams{ActorID: actorID, Target: u}); err != nil {
		return err
	}
	ok, err := s.Store.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("User not found")
	}
	return nil
}

// RatingSummary is the body of GET /api/users/:id/rating.
type RatingSummary struct {
	UserID  uuid.UUID `json:"userId"`
	Average float64   `json:"average"`
	Count   int64     `json:"count"`
}

func (s *Service) Rating(ctx context.Context, id uuid.UUID) (*RatingSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	r, err := s.Store.Reviews.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{UserID: id, Average: r.Average, Count: r.Count}, nil
}
