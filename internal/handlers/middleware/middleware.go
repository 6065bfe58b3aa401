package middleware

import (
	"strings"
	"time"

	"painlog/config"
	"painlog/internal/logger"
	. "painlog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	CallerHeader = "X-User-ID"
	callerKey    = "caller"
)

type Middleware struct {
	Config config.Config
	log    logger.Logger
}

func New(config config.Config) Middleware {
	return Middleware{
		Config: config,
		log:    logger.New("middleware"),
	}
}

// Caller validates the optional X-User-ID header and stores it for handlers.
// An absent header leaves the caller unset; handlers then treat the record
// owner named in the request as the caller.
func (m Middleware) Caller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(CallerHeader))
		if raw == "" {
			return c.Next()
		}

		caller, err := ParseUserID(CallerHeader, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "message": err.Error()})
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// RequestLogger logs every request once it completes.
func (m Middleware) RequestLogger() fiber.Handler {
	log := m.log.Function("RequestLogger")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.Info("Request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"requestID", c.Locals(requestid.ConfigDefault.ContextKey),
		)

		return err
	}
}

// CallerOr returns the caller set by Caller, or owner when the request carried
// no caller header.
func CallerOr(c *fiber.Ctx, owner UserID) UserID {
	if caller, ok := c.Locals(callerKey).(UserID); ok && caller != "" {
		return caller
	}
	return owner
}
