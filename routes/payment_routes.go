package routes

import (
	"github.com/truthdriving/driving_school/handlers"
	"github.com/truthdriving/driving_school/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("/create-checkout-session", handlers.CreateCheckoutSession)
	payments.Get("/check-payment-status/:sessionId", handlers.CheckPaymentStatus)
	payments.Post("/confirm-payment", handlers.ConfirmPayment)
	payments.Post("/send-receipt", handlers.SendReceipt)
}
