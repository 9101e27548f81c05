package routes

import (
	"github.com/alxtravel/alx_travel_app/handlers"
	"github.com/alxtravel/alx_travel_app/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/bookings", middleware.Protected(), handlers.CreateBooking)
	api.Get("/bookings/me", middleware.Protected(), handlers.GetMyBookings)
	api.Post("/bookings/:bookingId/cancel", middleware.Protected(), handlers.CancelBooking)
	api.Post("/bookings/:bookingId/reviews", middleware.Protected(), handlers.CreateReview)
}
