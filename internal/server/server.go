package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// New builds the fiber application with shared error handling.
func New(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
