package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/alxtravel/alx_travel_app/configs"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/alxtravel/alx_travel_app/notifications"
	"github.com/alxtravel/alx_travel_app/payments"
	"github.com/alxtravel/alx_travel_app/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotYourBooking      = errors.New("booking does not belong to this user")
	ErrAlreadyPaid         = errors.New("booking already paid for")
	ErrBookingCanceled     = errors.New("booking has been canceled")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentNotInitiated = errors.New("payment has no gateway transaction to verify")
	ErrPaymentRejected     = errors.New("payment rejected by gateway")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedWebhook    = errors.New("malformed webhook payload")
)

// JobQueue is the asynchronous boundary for notification work. The payment
// core enqueues and moves on; delivery failures never roll back a completed
// payment.
type JobQueue interface {
	Enqueue(name string, fn func() error) bool
}

// PaymentService owns every status transition of a Payment. The verify poll
// and the Chapa webhook both land here, on the same conditional-update
// transition, so the COMPLETED state is terminal no matter which path wins.
type PaymentService struct {
	DB    *gorm.DB
	Chapa *payments.ChapaClient
	Queue JobQueue
	Cfg   config.ChapaConfig
}

func NewPaymentService(db *gorm.DB, chapa *payments.ChapaClient, queue JobQueue, cfg config.ChapaConfig) *PaymentService {
	return &PaymentService{DB: db, Chapa: chapa, Queue: queue, Cfg: cfg}
}

type InitiateResult struct {
	Payment     *models.Payment
	CheckoutURL string
	Reused      bool
}

// Initiate creates or reuses the payment for a booking and opens a Chapa
// transaction. Repeated calls while a pending attempt is still open return
// the existing checkout reference instead of opening a second gateway
// transaction. A failed attempt is re-armed in place with a fresh tx_ref.
func (s *PaymentService) Initiate(bookingID, userID uuid.UUID) (*InitiateResult, error) {
	var booking models.Booking
	if err := s.DB.Preload("Listing").First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.GuestID != userID {
		return nil, ErrNotYourBooking
	}
	if booking.Status == models.BookingStatusCanceled {
		return nil, ErrBookingCanceled
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	payment, reused, err := s.findOrCreatePayment(&booking, &user)
	if err != nil {
		return nil, err
	}
	if reused {
		return &InitiateResult{
			Payment:     payment,
			CheckoutURL: payments.CheckoutURL(*payment.ChapaTxRef),
			Reused:      true,
		}, nil
	}

	txRef := utils.NewTransactionRef()
	updates := map[string]interface{}{
		"chapa_tx_ref": txRef,
		"status":       models.PaymentStatusPending,
	}
	if err := s.DB.Model(payment).Updates(updates).Error; err != nil {
		return nil, err
	}
	payment.ChapaTxRef = &txRef
	payment.Status = models.PaymentStatusPending

	req := payments.InitiateRequest{
		Amount:      fmt.Sprintf("%.2f", payment.Amount),
		Currency:    payment.Currency,
		Email:       payment.Email,
		FirstName:   payment.FirstName,
		LastName:    payment.LastName,
		PhoneNumber: payment.PhoneNumber,
		TxRef:       txRef,
		CallbackURL: s.Cfg.CallbackBaseURL + "/api/v1/payments/verify/" + payment.ID.String(),
		ReturnURL:   s.Cfg.CallbackBaseURL + "/api/v1/payments/success",
		Customization: map[string]string{
			"title": "Booking payment",
			"description": fmt.Sprintf("Payment for %s, %s to %s",
				booking.Listing.Title,
				booking.CheckIn.Format("2006-01-02"),
				booking.CheckOut.Format("2006-01-02")),
		},
	}

	resp, err := s.Chapa.InitiateTransaction(req)
	if err != nil {
		// Transport failure. The record is marked FAILED so the booking flow
		// sees a dead attempt, but a later Initiate call re-arms it.
		s.transitionToFailed(payment.ID, "chapa_response", nil)
		return nil, err
	}

	if err := s.DB.Model(payment).Update("chapa_response", resp.Raw).Error; err != nil {
		return nil, err
	}
	payment.ChapaResponse = resp.Raw

	if !resp.Succeeded() {
		s.transitionToFailed(payment.ID, "chapa_response", resp.Raw)
		payment.Status = models.PaymentStatusFailed
		return nil, fmt.Errorf("%w: %s", ErrPaymentRejected, resp.Message)
	}

	return &InitiateResult{Payment: payment, CheckoutURL: resp.Data.CheckoutURL}, nil
}

// findOrCreatePayment resolves the single payment row for a booking. The
// unique index on booking_id closes the create race: if two initiations
// arrive at once, the loser reloads the winner's row.
func (s *PaymentService) findOrCreatePayment(booking *models.Booking, user *models.User) (*models.Payment, bool, error) {
	var payment models.Payment
	err := s.DB.First(&payment, "booking_id = ?", booking.ID).Error
	if err == nil {
		switch payment.Status {
		case models.PaymentStatusCompleted:
			return nil, false, ErrAlreadyPaid
		case models.PaymentStatusCancelled:
			return nil, false, ErrBookingCanceled
		case models.PaymentStatusPending:
			if payment.ChapaTxRef != nil {
				return &payment, true, nil
			}
			// Pending but never reached the gateway, proceed to initiate.
			return &payment, false, nil
		default:
			// FAILED: retryable, re-arm the same row.
			return &payment, false, nil
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	payment = models.Payment{
		BookingID:     booking.ID,
		Amount:        booking.TotalPrice,
		Currency:      s.Cfg.DefaultCurrency,
		Status:        models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodChapa,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
	}
	if createErr := s.DB.Create(&payment).Error; createErr != nil {
		var existing models.Payment
		if s.DB.First(&existing, "booking_id = ?", booking.ID).Error == nil {
			return s.findOrCreatePayment(booking, user)
		}
		return nil, false, createErr
	}

	return &payment, false, nil
}

// Verify pulls the transaction's true status from Chapa and applies it.
// An already-completed payment short-circuits without touching the gateway,
// so replayed verification calls cannot duplicate side effects.
func (s *PaymentService) Verify(paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status == models.PaymentStatusCompleted || payment.Status == models.PaymentStatusCancelled {
		return &payment, nil
	}
	if payment.ChapaTxRef == nil {
		return nil, ErrPaymentNotInitiated
	}

	resp, err := s.Chapa.VerifyTransaction(*payment.ChapaTxRef)
	if err != nil {
		// Transport error: leave the payment as-is, the caller may retry.
		return nil, err
	}

	if resp.Succeeded() {
		transitioned, err := s.transitionToCompleted(payment.ID, resp.Raw)
		if err != nil {
			return nil, err
		}
		if transitioned {
			s.onCompleted(&payment)
		}
	} else {
		s.transitionToFailed(payment.ID, "verification_response", resp.Raw)
	}

	if err := s.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusFailed {
		return &payment, fmt.Errorf("%w: %s", ErrPaymentRejected, resp.Message)
	}

	return &payment, nil
}

// HandleWebhook applies a gateway-pushed outcome. The signature is checked
// over the raw bytes before anything is parsed. Chapa retries webhooks, so
// unknown references and replays are acknowledged without error.
func (s *PaymentService) HandleWebhook(rawBody []byte, signature string) error {
	if !payments.VerifyWebhookSignature(s.Cfg.WebhookSecret, rawBody, signature) {
		return ErrInvalidSignature
	}

	var event struct {
		Event string `json:"event"`
		TxRef string `json:"tx_ref"`
	}
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if event.TxRef == "" {
		return fmt.Errorf("%w: missing tx_ref", ErrMalformedWebhook)
	}

	var payment models.Payment
	if err := s.DB.First(&payment, "chapa_tx_ref = ?", event.TxRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Webhook for unknown tx_ref %s acknowledged", event.TxRef)
			return nil
		}
		return err
	}

	switch event.Event {
	case "charge.success":
		transitioned, err := s.transitionToCompleted(payment.ID, rawBody)
		if err != nil {
			return err
		}
		if transitioned {
			s.onCompleted(&payment)
		}
	case "charge.failed":
		s.transitionToFailed(payment.ID, "verification_response", rawBody)
	default:
		log.Printf("Ignoring webhook event %q for tx_ref %s", event.Event, event.TxRef)
	}

	return nil
}

// terminalStatuses are never overwritten by a later transition, no matter
// which path delivers it.
var terminalStatuses = []string{models.PaymentStatusCompleted, models.PaymentStatusCancelled}

// transitionToCompleted is the terminal transition shared by Verify and
// HandleWebhook. The WHERE clause is a compare-and-swap on status: when the
// two paths race, exactly one UPDATE matches a row, and only that caller
// reports transitioned=true and owns the side effects.
func (s *PaymentService) transitionToCompleted(paymentID uuid.UUID, raw []byte) (bool, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.PaymentStatusCompleted,
		"completed_at": &now,
	}
	if raw != nil {
		updates["verification_response"] = raw
	}

	res := s.DB.Model(&models.Payment{}).
		Where("id = ? AND status NOT IN ?", paymentID, terminalStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// transitionToFailed never overwrites a terminal payment.
func (s *PaymentService) transitionToFailed(paymentID uuid.UUID, rawColumn string, raw []byte) {
	updates := map[string]interface{}{"status": models.PaymentStatusFailed}
	if raw != nil {
		updates[rawColumn] = raw
	}

	res := s.DB.Model(&models.Payment{}).
		Where("id = ? AND status NOT IN ?", paymentID, terminalStatuses).
		Updates(updates)
	if res.Error != nil {
		log.Printf("Failed to mark payment %s as failed: %v", paymentID, res.Error)
	}
}

// onCompleted runs once per genuine COMPLETED transition: it confirms the
// booking and enqueues the confirmation email. The email job is
// fire-and-forget; a delivery failure never touches payment state.
func (s *PaymentService) onCompleted(payment *models.Payment) {
	var booking models.Booking
	if err := s.DB.Preload("Listing").First(&booking, "id = ?", payment.BookingID).Error; err != nil {
		log.Printf("Completed payment %s has no loadable booking: %v", payment.ID, err)
		return
	}

	if err := s.DB.Model(&booking).Update("status", models.BookingStatusConfirmed).Error; err != nil {
		log.Printf("Failed to confirm booking %s after payment: %v", booking.ID, err)
	}

	firstName := payment.FirstName
	email := payment.Email
	reference := payment.TransactionReference
	amount := fmt.Sprintf("%.2f %s", payment.Amount, payment.Currency)
	listingTitle := booking.Listing.Title

	ok := s.Queue.Enqueue("payment-confirmation-email", func() error {
		return notifications.SendPaymentConfirmation(firstName, email, listingTitle, reference, amount)
	})
	if !ok {
		log.Printf("Could not enqueue confirmation email for payment %s", payment.ID)
	}
}
