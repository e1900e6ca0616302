package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/persistence"
	"github.com/careerhub/career-api/internal/store"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	driver      string
	store       store.Store
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance. redis may be nil or
// unconfigured, in which case it is reported as disabled.
func NewHealthHandler(serviceName, version, driver string, docs store.Store, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, driver: driver, store: docs, redis: redis}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.store.Ping(ctx); err != nil {
		depStatus["store"] = err.Error()
		ready = false
	} else {
		depStatus["store"] = "ok"
	}
	depStatus["storeDriver"] = h.driver

	switch {
	case !h.redis.Enabled():
		depStatus["redis"] = "disabled"
	default:
		if err := h.redis.Ping(ctx); err != nil {
			depStatus["redis"] = err.Error()
			ready = false
		} else {
			depStatus["redis"] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"success":      true,
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success":      false,
		"code":         "DEPENDENCY_UNAVAILABLE",
		"message":      "one or more dependencies unavailable",
		"dependencies": depStatus,
	})
}
