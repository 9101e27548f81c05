package routes

import (
	"github.com/alxtravel/alx_travel_app/handlers"
	"github.com/alxtravel/alx_travel_app/middleware"
	"github.com/gofiber/fiber/v2"
)

func ListingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/listings", handlers.GetListings)
	api.Get("/listings/:listingId", handlers.GetListing)
	api.Get("/listings/:listingId/reviews", handlers.GetListingReviews)

	api.Post("/listings", middleware.Protected(), middleware.HostRequired(), handlers.CreateListing)
	api.Put("/listings/:listingId", middleware.Protected(), middleware.HostRequired(), handlers.UpdateListing)
	api.Delete("/listings/:listingId", middleware.Protected(), middleware.HostRequired(), handlers.DeleteListing)

	api.Get("/uploads/signature", middleware.Protected(), middleware.HostRequired(), handlers.GenerateUploadSignature)
}
