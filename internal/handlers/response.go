package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"storerating/internal/apperror"
)

// serviceError maps a service-layer error onto an HTTP response. Internal
// failures are logged with their cause and answered with a generic message.
func serviceError(c *fiber.Ctx, err error) error {
	status := apperror.StatusCode(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": apperror.Message(err),
	})
}

// badRequest answers a malformed or invalid request.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
