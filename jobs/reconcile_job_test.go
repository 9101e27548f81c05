package jobs

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	config "github.com/alxtravel/alx_travel_app/configs"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/alxtravel/alx_travel_app/payments"
	"github.com/alxtravel/alx_travel_app/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newReconcileService(t *testing.T, verifyBody string) (*services.PaymentService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Payment{},
	))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(verifyBody))
	}))
	t.Cleanup(server.Close)

	cfg := config.ChapaConfig{SecretKey: "k", WebhookSecret: "s", BaseURL: server.URL}
	queue := newTestDispatcher(8, 0)
	return services.NewPaymentService(db, payments.NewChapaClient(cfg), queue, cfg), db
}

func seedPendingPayment(t *testing.T, db *gorm.DB, age time.Duration) models.Payment {
	t.Helper()

	booking := models.Booking{
		ListingID:  uuid.New(),
		GuestID:    uuid.New(),
		CheckIn:    time.Now().AddDate(0, 0, 7),
		CheckOut:   time.Now().AddDate(0, 0, 12),
		Guests:     1,
		TotalPrice: 150.00,
		Status:     models.BookingStatusPending,
	}
	require.NoError(t, db.Create(&booking).Error)

	txRef := uuid.NewString()
	payment := models.Payment{
		BookingID:     booking.ID,
		ChapaTxRef:    &txRef,
		Amount:        150.00,
		Currency:      "ETB",
		Status:        models.PaymentStatusPending,
		PaymentMethod: models.PaymentMethodChapa,
		FirstName:     "Abel",
		Email:         "guest@example.com",
	}
	require.NoError(t, db.Create(&payment).Error)
	require.NoError(t, db.Model(&payment).
		UpdateColumn("updated_at", time.Now().Add(-age)).Error)

	return payment
}

func TestReconcileCompletesStalePendingPayment(t *testing.T) {
	svc, db := newReconcileService(t, `{"status":"success","data":{"status":"success"}}`)
	stale := seedPendingPayment(t, db, time.Hour)

	ReconcilePendingPayments(svc)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "id = ?", stale.ID).Error)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.NotNil(t, payment.CompletedAt)

	var booking models.Booking
	require.NoError(t, db.First(&booking, "id = ?", stale.BookingID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestReconcileSkipsRecentPendingPayment(t *testing.T) {
	svc, db := newReconcileService(t, `{"status":"success","data":{"status":"success"}}`)
	recent := seedPendingPayment(t, db, time.Minute)

	ReconcilePendingPayments(svc)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "id = ?", recent.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status, "payments inside the grace window stay untouched")
}
