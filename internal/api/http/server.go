package http

import "github.com/gofiber/fiber/v2"

// NewApp builds the fiber app. Immutable makes request values safe to keep
// after the handler returns; services hand them to the notification worker.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		Immutable:             true,
	})
}
