package handlers

import (
	"log"
	"time"

	"github.com/alxtravel/alx_travel_app/database"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ListingID       string `json:"listing_id" validate:"required,uuid"`
	CheckIn         string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guests" validate:"omitempty,min=1"`
	InitiatePayment bool   `json:"initiate_payment,omitempty"`
}

// CreateBooking books a listing and, when asked, chains straight into
// payment initiation as a direct service call. A payment failure still
// leaves the booking created; the client can re-initiate later.
func CreateBooking(c *fiber.Ctx) error {
	guestID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID format"})
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid check_in date format"})
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid check_out date format"})
	}
	if !checkOut.After(checkIn) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "check_out must be after check_in"})
	}
	if checkIn.Before(time.Now().Truncate(24 * time.Hour)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "check_in cannot be in the past"})
	}

	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}

	guests := req.Guests
	if guests == 0 {
		guests = 1
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	booking := models.Booking{
		ListingID:  listing.ID,
		GuestID:    guestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		TotalPrice: listing.PricePerNight * float64(nights),
		Status:     models.BookingStatusPending,
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	if !req.InitiatePayment {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
	}

	result, err := paymentService.Initiate(booking.ID, guestID)
	if err != nil {
		log.Printf("Payment initiation after booking %s failed: %v", booking.ID, err)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"booking": booking,
			"warning": "Booking created but payment initiation failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking":      booking,
		"payment":      result.Payment,
		"checkout_url": result.CheckoutURL,
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	guestID := currentUserID(c)

	var bookings []models.Booking
	database.DB.
		Preload("Listing").
		Where("guest_id = ?", guestID).
		Order("created_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func CancelBooking(c *fiber.Ctx) error {
	guestID := currentUserID(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.GuestID != guestID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}
	if booking.Status != models.BookingStatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only pending bookings can be canceled"})
	}

	booking.Status = models.BookingStatusCanceled
	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel booking"})
	}

	// An open payment attempt dies with the booking.
	database.DB.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", booking.ID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusCancelled)

	return c.JSON(fiber.Map{"message": "Booking canceled successfully"})
}
