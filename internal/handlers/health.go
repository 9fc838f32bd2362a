package handlers

import (
	"time"

	"github.com/upishield/upishield/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

// Health reports service liveness plus database and cache connectivity.
func Health(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "disconnected"
	}

	cacheStatus := "connected"
	if repositories.CacheService == nil || repositories.CacheService.Ping(c.Context()) != nil {
		cacheStatus = "disconnected"
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"message":   "UPI Shield server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).String(),
		"database":  dbStatus,
		"cache":     cacheStatus,
	})
}

// APIInfo describes the available endpoint groups.
func APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":        "UPI Shield API",
		"version":     "1.0.0",
		"description": "UPI fraud detection system API",
		"endpoints": fiber.Map{
			"auth":         "/api/auth",
			"detect":       "/api/detect",
			"transactions": "/api/transactions",
			"health":       "/health",
		},
	})
}
