package middleware

import (
	"errors"

	"agriconnect-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escape handlers in the {error} shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Message, fe.Code)
	}
	return response.FromError(c, err)
}
