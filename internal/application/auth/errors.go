package auth

import "agriconnect-backend/internal/pkg/apperror"

var (
	ErrEmailPasswordRequired = apperror.Invalid("Email and password are required")
	// ErrInvalidCredentials does not say which of the two was wrong.
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password")
	ErrNotAuthenticated   = apperror.Unauthorized("Not authenticated")
)
