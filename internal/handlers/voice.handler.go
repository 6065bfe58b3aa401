package handlers

import (
	"painlog/internal/app"
	voiceController "painlog/internal/controllers/voice"
	"painlog/internal/handlers/middleware"
	. "painlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type VoiceHandler struct {
	Handler
	controller *voiceController.VoiceController
}

func NewVoiceHandler(app app.App, router fiber.Router) *VoiceHandler {
	return &VoiceHandler{
		controller: app.VoiceController,
		Handler:    newHandler(app, router, "voice_handler"),
	}
}

func (h *VoiceHandler) Register() {
	h.router.Post("/voice-command", h.processVoiceCommand)
}

func (h *VoiceHandler) processVoiceCommand(c *fiber.Ctx) error {
	log := h.log.Function("processVoiceCommand")

	var request VoiceCommandRequest
	if err := parseBody(c, &request); err != nil {
		return respondError(c, log, err)
	}

	owner, err := ParseUserID("user_id", request.UserID)
	if err != nil {
		return respondError(c, log, err)
	}

	result, err := h.controller.Process(c.Context(), middleware.CallerOr(c, owner), request)
	if err != nil {
		return respondError(c, log, err)
	}

	response := Response{
		Success: true,
		Action:  string(result.Action),
		Message: result.Message,
	}
	if result.Entry != nil {
		response.Data = result.Entry
	}

	return c.JSON(response)
}
