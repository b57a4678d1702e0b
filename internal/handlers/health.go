package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, RDB: rdb}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Workly API running"})
}

// Health pings the database and Redis; either failing turns the response into 503.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "ok", "redis": "ok"}
	healthy := true

	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		healthy = false
	}
	if h.RDB == nil || h.RDB.Ping(ctx).Err() != nil {
		checks["redis"] = "down"
		healthy = false
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"success": healthy,
		"data":    checks,
	})
}
