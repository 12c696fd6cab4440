// handlers/arrivals_handler.go
package handlers

import (
	"errors"
	"time"

	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/services"
	"github.com/gofiber/fiber/v2"
)

// ArrivalsHandler handles GET /api/arrivals?date=YYYY-MM-DD.
func ArrivalsHandler(source services.ArrivalSource, homeAirport string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				return respondWithError(c, fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
			}
		}

		flights, err := source.Arrivals(c.UserContext(), date)
		if err != nil {
			if errors.Is(err, database.ErrStoreUnavailable) {
				return respondWithError(c, fiber.StatusServiceUnavailable, "snapshot store is unavailable")
			}
			return respondWithError(c, fiber.StatusInternalServerError, "failed to load arrivals")
		}

		return respondWithJSON(c, fiber.StatusOK, models.ArrivalsResponse{
			Airport: homeAirport,
			Date:    date,
			Count:   len(flights),
			Flights: flights,
		})
	}
}
