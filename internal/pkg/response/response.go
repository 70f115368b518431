package response

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"agriconnect-backend/internal/pkg/apperror"
)

const internalMessage = "Internal Server Error"

// OK sends 200 with body as-is. Bodies are keyed by resource name, e.g. {"listing": ...}.
func OK(c *fiber.Ctx, body interface{}) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created sends 201 with body as-is.
func Created(c *fiber.Ctx, body interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Error sends {"error": message} with the given status.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(fiber.Map{"error": message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusBadRequest)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusNotFound)
}

// Unauthorized sends 401 with the same shape as other errors.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusForbidden)
}

// FromError maps an application error to its status. Anything else is logged
// with the request's trace id and answered with a generic 500.
func FromError(c *fiber.Ctx, err error) error {
	if ae, ok := apperror.As(err); ok {
		body := fiber.Map{"error": ae.Message}
		for k, v := range ae.Extra {
			body[k] = v
		}
		return c.Status(ae.Code).JSON(body)
	}
	traceID, _ := c.Locals("trace_id").(string)
	log.Error().Err(err).Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return Error(c, internalMessage, fiber.StatusInternalServerError)
}
