package routes

import (
	"github.com/alxtravel/alx_travel_app/handlers"
	"github.com/alxtravel/alx_travel_app/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// The webhook authenticates with the x-chapa-signature header, and the
	// verify endpoint is Chapa's callback target, so neither carries a JWT.
	api.Post("/payments/webhook", handlers.ChapaWebhook)
	api.Get("/payments/verify/:paymentId", handlers.VerifyPayment)

	api.Post("/payments/initiate", middleware.Protected(), handlers.InitiatePayment)
	api.Get("/payments/status/:bookingId", middleware.Protected(), handlers.PaymentStatus)
	api.Get("/payments/success", middleware.Protected(), handlers.PaymentSuccess)
}
