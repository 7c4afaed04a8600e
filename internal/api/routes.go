package api

import (
	"time"

	"github.com/bilgisen/feedview/internal/config"
	"github.com/bilgisen/feedview/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp creates the fiber app serving the feed page
func NewApp(cfg *config.Config, handlers *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.HTTPTimeout,
		WriteTimeout:          cfg.HTTPTimeout,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	SetupRoutes(app, handlers, cfg)
	return app
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, cfg *config.Config) {
	app.Get("/", handlers.Page)
	app.Get("/health", handlers.HealthCheck)

	// Admin endpoints exist only when a key is configured
	if cfg.AdminAPIKey != "" {
		admin := app.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
		admin.Post("/cache/purge", handlers.PurgeCache)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("Not Found")
	})
}
