// handlers/admin_handler.go
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/scraper"
	"github.com/gofiber/fiber/v2"
)

// Collector triggers one collection run.
type Collector interface {
	RunCollection(ctx context.Context) (models.CollectionRun, error)
}

// respondWithJSON writes payload with the given status code.
func respondWithJSON(c *fiber.Ctx, code int, payload interface{}) error {
	return c.Status(code).JSON(payload)
}

// respondWithError logs and writes an {"error": message} body.
func respondWithError(c *fiber.Ctx, code int, message string) error {
	slog.Warn("api error", "component", "api", "status", code, "path", c.Path(), "message", message)
	return respondWithJSON(c, code, fiber.Map{"error": message})
}

// collectStatus maps a collection failure onto an HTTP status.
func collectStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrDuplicateRunKey):
		return fiber.StatusConflict
	case errors.Is(err, database.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, scraper.ErrTransportFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// CollectHandler handles POST /api/admin/collect: one synchronous collection run.
func CollectHandler(collector Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		run, err := collector.RunCollection(c.UserContext())
		if err != nil {
			return respondWithError(c, collectStatus(err), "scrape failed: "+err.Error())
		}
		return respondWithJSON(c, fiber.StatusOK, models.CollectResponse{
			Message: "scrape succeeded",
			Run:     run,
		})
	}
}

// RunsHandler handles GET /api/admin/runs?limit=N from the run log table.
func RunsHandler(c *fiber.Ctx) error {
	if database.DB == nil {
		return respondWithError(c, fiber.StatusServiceUnavailable, "run log requires a configured database")
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return respondWithError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	runs, err := database.GetCollectionRuns(c.UserContext(), limit)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, "failed to read run log")
	}
	return respondWithJSON(c, fiber.StatusOK, runs)
}

// HealthHandler handles GET /api/health. When a database is configured it must
// answer a ping.
func HealthHandler(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}
	if database.DB == nil {
		return respondWithJSON(c, fiber.StatusOK, status)
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		slog.Error("database ping failed", "component", "api", "err", err)
		return respondWithJSON(c, fiber.StatusServiceUnavailable, fiber.Map{"status": "degraded", "database": "unreachable"})
	}
	status["database"] = "ok"
	return respondWithJSON(c, fiber.StatusOK, status)
}
