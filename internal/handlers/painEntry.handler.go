package handlers

import (
	"fmt"

	"painlog/internal/app"
	painEntryController "painlog/internal/controllers/painEntry"
	"painlog/internal/handlers/middleware"
	. "painlog/internal/models"
	"painlog/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PainEntryHandler struct {
	Handler
	controller        *painEntryController.PainEntryController
	defaultWindowDays int
}

func NewPainEntryHandler(app app.App, router fiber.Router) *PainEntryHandler {
	return &PainEntryHandler{
		controller:        app.PainEntryController,
		defaultWindowDays: app.Config.DefaultWindowDays,
		Handler:           newHandler(app, router, "painEntry_handler"),
	}
}

func (h *PainEntryHandler) Register() {
	painEntries := h.router.Group("/pain-entries")
	painEntries.Post("/", h.createPainEntry)
	painEntries.Get("/", h.listPainEntries)
	painEntries.Get("/export", h.exportPainEntries)
	painEntries.Get("/:id", h.getPainEntry)
	painEntries.Put("/:id", h.updatePainEntry)
}

func (h *PainEntryHandler) createPainEntry(c *fiber.Ctx) error {
	log := h.log.Function("createPainEntry")

	var request CreatePainEntryRequest
	if err := parseBody(c, &request); err != nil {
		return respondError(c, log, err)
	}

	owner, err := ParseUserID("user_id", request.UserID)
	if err != nil {
		return respondError(c, log, err)
	}

	entry, err := h.controller.Create(c.Context(), middleware.CallerOr(c, owner), request)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    entry,
		Message: "Registro de dor criado com sucesso",
	})
}

func (h *PainEntryHandler) listPainEntries(c *fiber.Ctx) error {
	log := h.log.Function("listPainEntries")

	owner, err := ownerFromQuery(c, "user_id")
	if err != nil {
		return respondError(c, log, err)
	}

	days, err := parseDays(c, h.defaultWindowDays)
	if err != nil {
		return respondError(c, log, err)
	}

	entries, err := h.controller.List(c.Context(), middleware.CallerOr(c, owner), owner, days)
	if err != nil {
		return respondError(c, log, err)
	}

	return respondList(c, entries)
}

func (h *PainEntryHandler) getPainEntry(c *fiber.Ctx) error {
	log := h.log.Function("getPainEntry")

	entry, err := h.controller.Get(c.Context(), middleware.CallerOr(c, ""), c.Params("id"))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(Response{Success: true, Data: entry})
}

func (h *PainEntryHandler) updatePainEntry(c *fiber.Ctx) error {
	log := h.log.Function("updatePainEntry")

	var patch PainEntryPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, log, err)
	}

	entry, err := h.controller.Update(c.Context(), middleware.CallerOr(c, ""), c.Params("id"), patch)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(Response{
		Success: true,
		Data:    entry,
		Message: "Registro atualizado com sucesso",
	})
}

var painEntryCSVHeaders = []string{"id", "timestamp", "intensity", "location", "symptoms", "notes"}

// exportPainEntries writes the same window as listPainEntries as a CSV
// attachment, newest first.
func (h *PainEntryHandler) exportPainEntries(c *fiber.Ctx) error {
	log := h.log.Function("exportPainEntries")

	owner, err := ownerFromQuery(c, "user_id")
	if err != nil {
		return respondError(c, log, err)
	}

	days, err := parseDays(c, h.defaultWindowDays)
	if err != nil {
		return respondError(c, log, err)
	}

	entries, err := h.controller.List(c.Context(), middleware.CallerOr(c, owner), owner, days)
	if err != nil {
		return respondError(c, log, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"pain_entries_%s_%dd.csv\"", owner, days))

	writer := utils.NewCSVWriter(c.Response().BodyWriter(), painEntryCSVHeaders)
	for _, entry := range entries {
		if err := writer.Write([]string{
			entry.ID,
			utils.FormatCSVTime(entry.Timestamp),
			utils.FormatCSVInt(entry.Intensity),
			utils.FormatCSVList(entry.Location),
			utils.FormatCSVOptional(entry.Symptoms),
			utils.FormatCSVOptional(entry.Notes),
		}); err != nil {
			return log.Err("failed to write pain entry export", err, "userID", owner)
		}
	}

	rows, err := writer.Flush()
	if err != nil {
		return log.Err("failed to flush pain entry export", err, "userID", owner)
	}

	log.Info("Exported pain entries", "userID", owner, "days", days, "rows", rows)
	return nil
}
