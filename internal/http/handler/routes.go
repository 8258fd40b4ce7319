package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docms/internal/service"
)

// HealthCheck reports readiness. When a SQL store is configured it pings the
// database; the in-memory store has nothing to probe and is always ready.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.PingContext(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unhealthy",
					"time":   time.Now().UTC().Format(time.RFC3339),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// LivenessProbe answers as long as the process can serve requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	}
}

// RegisterRoutes mounts all application routes on the Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	docs := api.Group("/documents")
	docs.Get("/", SearchDocuments(svc))
	docs.Post("/", CreateDocument(svc))
	docs.Get("/:id", GetDocument(svc))
	docs.Put("/:id", UpdateDocument(svc))
	docs.Delete("/:id", DeleteDocument(svc))
}
