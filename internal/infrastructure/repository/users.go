package repository

import (
	"context"
	"strings"

	"agriconnect-backend/internal/domain"
)

type UserRepository interface {
	Repository[domain.User]
	// FindByEmail matches case-insensitively; emails are stored lower-cased.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepo struct {
	crud[domain.User]
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}
