package middleware

import (
	"farmhith/logger"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLog queues a sanitized copy of every request and response for the logs table.
func RequestLog(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		asyncLogger.Log(utils.CreateSanitizedLogEntry(c))
		return err
	}
}
