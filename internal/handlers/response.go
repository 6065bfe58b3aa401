package handlers

import (
	"strconv"
	"strings"

	"painlog/internal/logger"
	. "painlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Summary any    `json:"summary,omitempty"`
	Action  string `json:"action,omitempty"`
}

func statusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAuthorizationDenied:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the envelope for err. Typed errors keep their message;
// anything else is reported as an internal error.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	appErr, ok := AsAppError(err)
	if !ok {
		log.Er("unexpected error", err, "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).
			JSON(Response{Success: false, Message: "internal server error"})
	}

	status := statusFor(appErr.Kind)
	if status == fiber.StatusInternalServerError {
		log.Er("request failed", err, "path", c.Path())
	}

	return c.Status(status).JSON(Response{Success: false, Message: appErr.Message})
}

func respondList[T any](c *fiber.Ctx, items []T) error {
	count := len(items)
	return c.JSON(Response{Success: true, Data: items, Count: &count})
}

func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return NewValidationError("invalid request body: %v", err)
	}
	return nil
}

func ownerFromQuery(c *fiber.Ctx, field string) (UserID, error) {
	return ParseUserID(field, c.Query(field))
}

// parseDays reads the days query parameter. Range checks happen in the
// controllers.
func parseDays(c *fiber.Ctx, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query("days"))
	if raw == "" {
		return fallback, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationError("days must be a positive integer, got %q", raw)
	}
	return days, nil
}
