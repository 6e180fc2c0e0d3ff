package routes

import (
	"github.com/truthdriving/driving_school/handlers"
	"github.com/truthdriving/driving_school/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	bookings := admin.Group("/bookings")
	bookings.Get("", handlers.AdminGetBookings)
	bookings.Post("", handlers.AdminCreateBooking)
	bookings.Put("/:id/verify", handlers.AdminVerifyBooking)
	bookings.Put("/:id/reject", handlers.AdminRejectBooking)
	bookings.Put("/:id", handlers.AdminUpdateBooking)
	bookings.Delete("/:id", handlers.AdminDeleteBooking)

	packages := admin.Group("/packages")
	packages.Post("", handlers.AdminCreatePackage)
	packages.Put("/:id", handlers.AdminUpdatePackage)
	packages.Delete("/:id", handlers.AdminDeletePackage)

	payments := admin.Group("/payments")
	payments.Get("", handlers.AdminGetPayments)
	payments.Put("/:id/quota", handlers.AdminUpdateQuota)
	payments.Delete("/:id", handlers.AdminDeleteUserPackage)

	contact := admin.Group("/contact-messages")
	contact.Get("", handlers.AdminGetContactMessages)
	contact.Put("/:id", handlers.AdminUpdateContactMessage)
	contact.Post("/:id/reply", handlers.AdminReplyContactMessage)
	contact.Delete("/:id", handlers.AdminDeleteContactMessage)

	users := admin.Group("/users")
	users.Get("", handlers.AdminGetUsers)
	users.Get("/:id", handlers.AdminGetUser)
	users.Put("/:id", handlers.AdminUpdateUser)
	users.Delete("/:id", handlers.AdminDeleteUser)
}
