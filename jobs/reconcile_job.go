package jobs

import (
	"errors"
	"log"
	"time"

	"github.com/alxtravel/alx_travel_app/models"
	"github.com/alxtravel/alx_travel_app/payments"
	"github.com/alxtravel/alx_travel_app/services"
)

// ReconcilePendingPayments re-drives payments that opened a gateway
// transaction but never saw a webhook or a client verification poll. It
// reuses the ordinary Verify path, so the terminal-state rules apply
// unchanged; a transport error leaves the payment pending for the next
// sweep.
func ReconcilePendingPayments(svc *services.PaymentService) {
	log.Println("Running job: ReconcilePendingPayments...")

	cutoff := time.Now().Add(-10 * time.Minute)

	var stale []models.Payment
	err := svc.DB.
		Where("status = ? AND chapa_tx_ref IS NOT NULL AND updated_at < ?", models.PaymentStatusPending, cutoff).
		Limit(50).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error loading stale pending payments: %v", err)
		return
	}

	for _, payment := range stale {
		if _, err := svc.Verify(payment.ID); err != nil {
			if errors.Is(err, payments.ErrGatewayUnreachable) {
				continue
			}
			if errors.Is(err, services.ErrPaymentRejected) {
				log.Printf("Reconciliation marked payment %s as failed", payment.ID)
				continue
			}
			log.Printf("Reconciliation error for payment %s: %v", payment.ID, err)
		}
	}
}
