package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	config "github.com/alxtravel/alx_travel_app/configs"
	"github.com/alxtravel/alx_travel_app/models"
	"github.com/alxtravel/alx_travel_app/payments"
	"github.com/alxtravel/alx_travel_app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const webhookTestSecret = "whsec_handler_test"

func newWebhookApp(t *testing.T) *fiber.App {
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

	cfg := config.ChapaConfig{
		SecretKey:     "CHASECK_TEST-secret",
		WebhookSecret: webhookTestSecret,
		BaseURL:       "http://127.0.0.1:0",
	}
	InitPaymentHandlers(services.NewPaymentService(db, payments.NewChapaClient(cfg), noopQueue{}, cfg))

	app := fiber.New()
	app.Post("/api/v1/payments/webhook", ChapaWebhook)
	return app
}

type noopQueue struct{}

func (noopQueue) Enqueue(name string, fn func() error) bool { return true }

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) int {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-chapa-signature", signature)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

// withTestUser stands in for the auth middleware, planting the JWT the
// handlers read the user id from.
func withTestUser(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID.String(),
		}))
		return c.Next()
	}
}

func TestInitiatePaymentRejectsMalformedBookingID(t *testing.T) {
	app := newWebhookApp(t)
	app.Post("/api/v1/payments/initiate", withTestUser(uuid.New()), InitiatePayment)

	req := httptest.NewRequest("POST", "/api/v1/payments/initiate",
		strings.NewReader(`{"booking_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInitiatePaymentUnknownBookingIsNotFound(t *testing.T) {
	app := newWebhookApp(t)
	app.Post("/api/v1/payments/initiate", withTestUser(uuid.New()), InitiatePayment)

	body := fmt.Sprintf(`{"booking_id":"%s"}`, uuid.NewString())
	req := httptest.NewRequest("POST", "/api/v1/payments/initiate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChapaWebhookRequiresSignature(t *testing.T) {
	app := newWebhookApp(t)

	status := postWebhook(t, app, []byte(`{"event":"charge.success","tx_ref":"x"}`), "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestChapaWebhookRejectsBadSignature(t *testing.T) {
	app := newWebhookApp(t)

	status := postWebhook(t, app, []byte(`{"event":"charge.success","tx_ref":"x"}`), "deadbeef")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestChapaWebhookAcknowledgesUnknownReference(t *testing.T) {
	app := newWebhookApp(t)

	payload := []byte(`{"event":"charge.success","tx_ref":"never-seen"}`)
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	mac.Write(payload)

	status := postWebhook(t, app, payload, hex.EncodeToString(mac.Sum(nil)))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestChapaWebhookRejectsMalformedPayload(t *testing.T) {
	app := newWebhookApp(t)

	payload := []byte(`{"event":`)
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	mac.Write(payload)

	status := postWebhook(t, app, payload, hex.EncodeToString(mac.Sum(nil)))
	assert.Equal(t, fiber.StatusBadRequest, status)
}
