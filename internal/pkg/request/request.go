// Package request holds the small parsing helpers shared by handlers.
package request

import (
	"encoding/json"
	"strings"

	"agriconnect-backend/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = apperror.Invalid("Invalid request body")

// ID parses the :name path parameter. A malformed id cannot name a row, so it
// is reported with the same 404 as a missing one.
func ID(c *fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(notFound)
	}
	return id, nil
}

// Map decodes a JSON object body.
func Map(c *fiber.Ctx) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body == nil {
		return nil, errInvalidBody
	}
	return body, nil
}

// Bind decodes a JSON body into v.
func Bind(c *fiber.Ctx, v interface{}) error {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return errInvalidBody
	}
	return nil
}

// Flag reports whether query parameter name is "true".
func Flag(c *fiber.Ctx, name string) bool {
	return strings.EqualFold(c.Query(name), "true")
}
