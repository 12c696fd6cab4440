// handlers/routes.go
package handlers

import (
	"errors"
	"log/slog"

	"github.com/gewnthar/arrivals/services"
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the fiber app with JSON error bodies.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "arrivals",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			} else {
				slog.Error("unhandled api error", "component", "api", "path", c.Path(), "err", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
}

// RegisterRoutes wires the HTTP handlers into the fiber app.
func RegisterRoutes(app *fiber.App, source services.ArrivalSource, collector Collector, homeAirport string) {
	api := app.Group("/api")
	api.Get("/health", HealthHandler)
	api.Get("/arrivals", ArrivalsHandler(source, homeAirport))

	admin := api.Group("/admin")
	admin.Post("/collect", CollectHandler(collector))
	admin.Get("/runs", RunsHandler)
}
