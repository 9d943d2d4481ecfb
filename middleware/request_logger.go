package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"home-booking/logger"
	"home-booking/types"
)

// RequestLogger captures every API request/response into the logs table
// through the async logger, off the request path.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestBody := string(c.Body())

		err := c.Next()

		asyncLogger.Log(types.LogEntry{
			Method:          c.Method(),
			URL:             c.OriginalURL(),
			RequestBody:     requestBody,
			ResponseBody:    string(c.Response().Body()),
			RequestHeaders:  c.Request().Header.String(),
			ResponseHeaders: c.Response().Header.String(),
			StatusCode:      c.Response().StatusCode(),
			CreatedAt:       time.Now(),
		})

		return err
	}
}
