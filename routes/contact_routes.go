package routes

import (
	"github.com/truthdriving/driving_school/handlers"
	"github.com/gofiber/fiber/v2"
)

func ContactRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Post("/contact", handlers.SubmitContactMessage)
}
