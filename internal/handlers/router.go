package handlers

import (
	"painlog/internal/app"
	"painlog/internal/handlers/middleware"
	"painlog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		log:        logger.New("handlers").File(file),
		router:     router,
		middleware: app.Middleware,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api", app.Middleware.Caller())

	HealthHandler(api, *app)
	NewPainEntryHandler(*app, api).Register()
	NewMedicationHandler(*app, api).Register()
	NewTherapyHandler(*app, api).Register()
	NewAnalyticsHandler(*app, api).Register()
	NewVoiceHandler(*app, api).Register()
	NewCaregiverHandler(*app, api).Register()

	return nil
}
