package handlers

import (
	"painlog/internal/app"
	therapyController "painlog/internal/controllers/therapy"
	"painlog/internal/handlers/middleware"
	. "painlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TherapyHandler struct {
	Handler
	controller        *therapyController.TherapyController
	defaultWindowDays int
}

func NewTherapyHandler(app app.App, router fiber.Router) *TherapyHandler {
	return &TherapyHandler{
		controller:        app.TherapyController,
		defaultWindowDays: app.Config.DefaultWindowDays,
		Handler:           newHandler(app, router, "therapy_handler"),
	}
}

func (h *TherapyHandler) Register() {
	therapies := h.router.Group("/therapies")
	therapies.Post("/", h.createTherapy)
	therapies.Get("/", h.listTherapies)
}

func (h *TherapyHandler) createTherapy(c *fiber.Ctx) error {
	log := h.log.Function("createTherapy")

	var request CreateTherapyRequest
	if err := parseBody(c, &request); err != nil {
		return respondError(c, log, err)
	}

	owner, err := ParseUserID("user_id", request.UserID)
	if err != nil {
		return respondError(c, log, err)
	}

	therapy, err := h.controller.Create(c.Context(), middleware.CallerOr(c, owner), request)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    therapy,
		Message: "Terapia registrada com sucesso",
	})
}

func (h *TherapyHandler) listTherapies(c *fiber.Ctx) error {
	log := h.log.Function("listTherapies")

	owner, err := ownerFromQuery(c, "user_id")
	if err != nil {
		return respondError(c, log, err)
	}

	days, err := parseDays(c, h.defaultWindowDays)
	if err != nil {
		return respondError(c, log, err)
	}

	therapies, err := h.controller.List(c.Context(), middleware.CallerOr(c, owner), owner, days)
	if err != nil {
		return respondError(c, log, err)
	}

	return respondList(c, therapies)
}
