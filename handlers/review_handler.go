package handlers

import (
	"errors"
	"time"

	"github.com/alxtravel/alx_travel_app/database"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func CreateReview(c *fiber.Ctx) error {
	guestID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newReview models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			return errors.New("booking not found")
		}
		if booking.GuestID != guestID {
			return errors.New("you are not the guest for this booking")
		}
		if booking.Status != models.BookingStatusConfirmed {
			return errors.New("reviews can only be submitted for confirmed bookings")
		}
		if booking.CheckOut.After(time.Now()) {
			return errors.New("reviews can only be submitted after the stay has ended")
		}

		var existing models.Review
		if err := tx.Where("booking_id = ?", bookingID).First(&existing).Error; err == nil {
			return errors.New("a review for this booking has already been submitted")
		}

		newReview = models.Review{
			BookingID: booking.ID,
			ListingID: booking.ListingID,
			GuestID:   guestID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		return tx.Create(&newReview).Error
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(newReview)
}

func GetListingReviews(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID format"})
	}

	var reviews []models.Review
	database.DB.
		Where("listing_id = ?", listingID).
		Order("created_at desc").
		Find(&reviews)

	return c.JSON(reviews)
}
