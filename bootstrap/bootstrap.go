package bootstrap

import (
	"agriconnect-backend/internal/config"
	"agriconnect-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless hosts. The api handler imports
// this package because it cannot reach internal/ directly.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
