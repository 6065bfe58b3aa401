package handlers

import (
	"painlog/internal/app"
	caregiverController "painlog/internal/controllers/caregiver"
	"painlog/internal/handlers/middleware"
	. "painlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CaregiverHandler struct {
	Handler
	controller *caregiverController.CaregiverController
}

func NewCaregiverHandler(app app.App, router fiber.Router) *CaregiverHandler {
	return &CaregiverHandler{
		controller: app.CaregiverController,
		Handler:    newHandler(app, router, "caregiver_handler"),
	}
}

func (h *CaregiverHandler) Register() {
	caregivers := h.router.Group("/caregivers")
	caregivers.Post("/", h.grantAccess)
	caregivers.Get("/", h.listGrants)
	caregivers.Delete("/:id", h.revokeAccess)
}

func (h *CaregiverHandler) grantAccess(c *fiber.Ctx) error {
	log := h.log.Function("grantAccess")

	var request GrantAccessRequest
	if err := parseBody(c, &request); err != nil {
		return respondError(c, log, err)
	}

	patient, err := ParseUserID("patient_id", request.PatientID)
	if err != nil {
		return respondError(c, log, err)
	}

	grant, err := h.controller.Grant(c.Context(), middleware.CallerOr(c, patient), request)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    grant,
		Message: "Acesso concedido com sucesso",
	})
}

func (h *CaregiverHandler) listGrants(c *fiber.Ctx) error {
	log := h.log.Function("listGrants")

	patient, err := ownerFromQuery(c, "patient_id")
	if err != nil {
		return respondError(c, log, err)
	}

	grants, err := h.controller.List(
		c.Context(),
		middleware.CallerOr(c, patient),
		patient,
		c.QueryBool("include_revoked", false),
	)
	if err != nil {
		return respondError(c, log, err)
	}

	return respondList(c, grants)
}

func (h *CaregiverHandler) revokeAccess(c *fiber.Ctx) error {
	log := h.log.Function("revokeAccess")

	grant, err := h.controller.Revoke(c.Context(), middleware.CallerOr(c, ""), c.Params("id"))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(Response{
		Success: true,
		Data:    grant,
		Message: "Acesso revogado com sucesso",
	})
}
