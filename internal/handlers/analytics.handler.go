package handlers

import (
	"painlog/internal/app"
	analyticsController "painlog/internal/controllers/analytics"
	"painlog/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	Handler
	controller        *analyticsController.AnalyticsController
	defaultWindowDays int
}

func NewAnalyticsHandler(app app.App, router fiber.Router) *AnalyticsHandler {
	return &AnalyticsHandler{
		controller:        app.AnalyticsController,
		defaultWindowDays: app.Config.DefaultWindowDays,
		Handler:           newHandler(app, router, "analytics_handler"),
	}
}

func (h *AnalyticsHandler) Register() {
	analytics := h.router.Group("/analytics")
	analytics.Get("/pain-trends", h.getPainTrends)
}

func (h *AnalyticsHandler) getPainTrends(c *fiber.Ctx) error {
	log := h.log.Function("getPainTrends")

	owner, err := ownerFromQuery(c, "user_id")
	if err != nil {
		return respondError(c, log, err)
	}

	days, err := parseDays(c, h.defaultWindowDays)
	if err != nil {
		return respondError(c, log, err)
	}

	result, err := h.controller.PainTrends(c.Context(), middleware.CallerOr(c, owner), owner, days)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(Response{
		Success: true,
		Data:    result.PerDay,
		Summary: result.Summary,
	})
}
