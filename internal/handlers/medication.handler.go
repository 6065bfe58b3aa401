package handlers

import (
	"painlog/internal/app"
	medicationController "painlog/internal/controllers/medication"
	"painlog/internal/handlers/middleware"
	. "painlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MedicationHandler struct {
	Handler
	controller *medicationController.MedicationController
}

func NewMedicationHandler(app app.App, router fiber.Router) *MedicationHandler {
	return &MedicationHandler{
		controller: app.MedicationController,
		Handler:    newHandler(app, router, "medication_handler"),
	}
}

func (h *MedicationHandler) Register() {
	medications := h.router.Group("/medications")
	medications.Post("/", h.createMedication)
	medications.Get("/", h.listMedications)
	medications.Delete("/:id", h.deactivateMedication)
}

func (h *MedicationHandler) createMedication(c *fiber.Ctx) error {
	log := h.log.Function("createMedication")

	var request CreateMedicationRequest
	if err := parseBody(c, &request); err != nil {
		return respondError(c, log, err)
	}

	owner, err := ParseUserID("user_id", request.UserID)
	if err != nil {
		return respondError(c, log, err)
	}

	medication, err := h.controller.Create(c.Context(), middleware.CallerOr(c, owner), request)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    medication,
		Message: "Medicamento adicionado com sucesso",
	})
}

func (h *MedicationHandler) listMedications(c *fiber.Ctx) error {
	log := h.log.Function("listMedications")

	owner, err := ownerFromQuery(c, "user_id")
	if err != nil {
		return respondError(c, log, err)
	}

	medications, err := h.controller.ListActive(c.Context(), middleware.CallerOr(c, owner), owner)
	if err != nil {
		return respondError(c, log, err)
	}

	return respondList(c, medications)
}

func (h *MedicationHandler) deactivateMedication(c *fiber.Ctx) error {
	log := h.log.Function("deactivateMedication")

	medication, err := h.controller.Deactivate(c.Context(), middleware.CallerOr(c, ""), c.Params("id"))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(Response{
		Success: true,
		Data:    medication,
		Message: "Medicamento desativado com sucesso",
	})
}
