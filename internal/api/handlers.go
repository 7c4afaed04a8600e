package api

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/bilgisen/feedview/internal/cache"
	"github.com/bilgisen/feedview/internal/config"
	"github.com/bilgisen/feedview/internal/logger"
	"github.com/bilgisen/feedview/internal/render"
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint
var Version = "dev"

// PageRenderer renders the feed page
type PageRenderer interface {
	Render(ctx context.Context, w io.Writer) (render.Outcome, error)
}

type Handlers struct {
	config   *config.Config
	renderer PageRenderer
	cache    cache.Store
}

// NewHandlers wires the handlers. store may be nil when caching is off.
func NewHandlers(cfg *config.Config, renderer PageRenderer, store cache.Store) *Handlers {
	return &Handlers{
		config:   cfg,
		renderer: renderer,
		cache:    store,
	}
}

// StatusFor maps a render outcome to the page's HTTP status
func StatusFor(outcome render.Outcome) int {
	switch outcome {
	case render.OutcomeConfigMissing:
		return fiber.StatusServiceUnavailable
	case render.OutcomeFetchFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusOK
	}
}

// Page handles GET /
func (h *Handlers) Page(c *fiber.Ctx) error {
	var buf bytes.Buffer
	outcome, err := h.renderer.Render(c.UserContext(), &buf)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(StatusFor(outcome)).Send(buf.Bytes())
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "ok",
		"version":            Version,
		"time":               time.Now().Format(time.RFC3339),
		"backend_configured": h.config.Backend.Configured(),
	})
}

// PurgeCache handles POST /admin/cache/purge
func (h *Handlers) PurgeCache(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(fiber.Map{
			"status": "skipped",
			"reason": "cache disabled",
		})
	}

	if err := h.cache.Purge(c.UserContext()); err != nil {
		logger.Get().Error().Err(err).Msg("Error purging feed cache")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to purge cache",
		})
	}

	logger.Get().Info().Str("ip", c.IP()).Msg("Feed cache purged")
	return c.JSON(fiber.Map{
		"status": "purged",
	})
}
