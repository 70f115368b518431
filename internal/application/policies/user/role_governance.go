package policies

import (
	"context"

	"agriconnect-backend/internal/domain"
	"agriconnect-backend/internal/infrastructure/repository"
	"agriconnect-backend/internal/pkg/apperror"
	"agriconnect-backend/internal/pkg/constants"

	"github.com/google/uuid"
)

var (
	ErrUsersCannotRemoveThemselves = apperror.Forbidden("Users cannot delete their own account")
	ErrMustKeepOneAdmin            = apperror.Conflict("At least one admin account must remain")
)

type ValidateRemovalParams struct {
	ActorID *uuid.UUID
	Target  *domain.User
}

// ValidateRemoval guards account deletion. Returns nil when target may be
// removed by actor.
func ValidateRemoval(ctx context.Context, users repository.UserRepository, params ValidateRemovalParams) error {
	if params.Target == nil {
		return nil
	}
	if params.ActorID != nil && *params.ActorID == params.Target.ID {
		return ErrUsersCannotRemoveThemselves
	}
	if params.Target.Role != constants.Admin {
		return nil
	}
	admins, err := users.FindAll(ctx, repository.Filters{"role": constants.Admin})
	if err != nil {
		return err
	}
	if len(admins) <= 1 {
		return ErrMustKeepOneAdmin
	}
	return nil
}
