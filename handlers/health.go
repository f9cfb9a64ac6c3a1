package handlers

import (
	"github.com/amitesh-7/predictwise-ai-sub000/database"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/cache"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness of the server and its dependencies
type HealthHandler struct {
	store database.Storage
	cache *cache.RedisCache
}

// NewHealthHandler creates a new health handler. cache may be nil when
// Redis is not configured.
func NewHealthHandler(store database.Storage, redisCache *cache.RedisCache) *HealthHandler {
	return &HealthHandler{
		store: store,
		cache: redisCache,
	}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Check handles GET /api/v1/health and verifies dependencies
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	checks := fiber.Map{}

	if err := h.store.HealthCheck(); err != nil {
		status = "degraded"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(c.Context()); err != nil {
			status = "degraded"
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
