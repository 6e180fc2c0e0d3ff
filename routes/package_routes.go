package routes

import (
	"github.com/truthdriving/driving_school/handlers"
	"github.com/truthdriving/driving_school/middleware"
	"github.com/gofiber/fiber/v2"
)

func PackageRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Get("/packages", handlers.ListPackages)

	myPackages := api.Group("/packages", middleware.Protected())
	myPackages.Get("/my-packages", handlers.GetMyPackages)
	myPackages.Get("/available-for-booking", handlers.GetPackagesAvailableForBooking)
}
