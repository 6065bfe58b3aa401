package handlers

import (
	"context"
	"time"

	"painlog/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		status, database := "healthy", "ok"
		if sqlDB, err := app.Database.SQL.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, database = "degraded", "unavailable"
		}

		code := fiber.StatusOK
		if database != "ok" {
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(Response{
			Success: code == fiber.StatusOK,
			Data: fiber.Map{
				"status":   status,
				"version":  app.Config.GeneralVersion,
				"database": database,
				"cache":    app.Config.CacheEnabled(),
			},
		})
	})
}
