package handlers

import (
	"errors"
	"log"

	"github.com/alxtravel/alx_travel_app/database"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/alxtravel/alx_travel_app/payments"
	"github.com/alxtravel/alx_travel_app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var paymentService *services.PaymentService

// InitPaymentHandlers wires the payment service built in main into the
// handler package.
func InitPaymentHandlers(s *services.PaymentService) {
	paymentService = s
}

type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

func InitiatePayment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	result, err := paymentService.Initiate(bookingID, userID)
	if err != nil {
		return paymentErrorResponse(c, err)
	}

	message := "Payment initiated successfully"
	if result.Reused {
		message = "Payment already initiated"
	}
	return c.JSON(fiber.Map{
		"message":      message,
		"payment":      result.Payment,
		"checkout_url": result.CheckoutURL,
	})
}

func VerifyPayment(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	payment, err := paymentService.Verify(paymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentRejected) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Payment verification failed",
				"payment": payment,
			})
		}
		return paymentErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment verified successfully",
		"payment": payment,
	})
}

func PaymentStatus(c *fiber.Ctx) error {
	userID := currentUserID(c)

	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ? AND guest_id = ?", bookingID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, "booking_id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No payment found for this booking"})
	}

	return c.JSON(fiber.Map{"payment": payment})
}

func PaymentSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":      "Payment completed successfully",
		"redirect_url": "/api/v1/bookings/me",
	})
}

func ChapaWebhook(c *fiber.Ctx) error {
	signature := c.Get("x-chapa-signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No signature provided"})
	}

	err := paymentService.HandleWebhook(c.Body(), signature)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"status": "success"})
	case errors.Is(err, services.ErrInvalidSignature):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	case errors.Is(err, services.ErrMalformedWebhook):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("🔥 Webhook processing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}
}

func paymentErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrBookingNotFound), errors.Is(err, services.ErrNotYourBooking):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	case errors.Is(err, services.ErrPaymentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	case errors.Is(err, services.ErrAlreadyPaid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking already paid for"})
	case errors.Is(err, services.ErrBookingCanceled):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking has been canceled"})
	case errors.Is(err, services.ErrPaymentNotInitiated):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment has not been initiated"})
	case errors.Is(err, services.ErrPaymentRejected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, payments.ErrGatewayUnreachable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Payment gateway is unreachable, please try again"})
	default:
		log.Printf("🔥 Payment operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment operation failed"})
	}
}
