package routes

import (
	"github.com/truthdriving/driving_school/handlers"
	"github.com/truthdriving/driving_school/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("", handlers.GetMyBookings)
	booking.Get("/slots", handlers.GetAvailableSlots)
	booking.Post("", handlers.CreateBooking)
	booking.Put("/:id", handlers.UpdateBooking)
	booking.Put("/:id/cancel", handlers.CancelBooking)
	booking.Delete("/:id", handlers.DeleteBooking)
}
