package payments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/alxtravel/alx_travel_app/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *ChapaClient {
	return NewChapaClient(config.ChapaConfig{
		SecretKey:       "CHASECK_TEST-secret",
		BaseURL:         serverURL,
		DefaultCurrency: "ETB",
	})
}

func TestInitiateTransactionSuccess(t *testing.T) {
	var gotAuth string
	var gotBody InitiateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"https://checkout.chapa.co/checkout/payment/xyz"}}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).InitiateTransaction(InitiateRequest{
		Amount:   "150.00",
		Currency: "ETB",
		Email:    "guest@example.com",
		TxRef:    "tx-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer CHASECK_TEST-secret", gotAuth)
	assert.Equal(t, "150.00", gotBody.Amount)
	assert.Equal(t, "tx-1", gotBody.TxRef)
	assert.True(t, resp.Succeeded())
	assert.Equal(t, "https://checkout.chapa.co/checkout/payment/xyz", resp.Data.CheckoutURL)
	assert.NotEmpty(t, resp.Raw)
}

func TestInitiateTransactionBusinessRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed","message":"Invalid currency"}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).InitiateTransaction(InitiateRequest{TxRef: "tx-1"})
	require.NoError(t, err)

	assert.False(t, resp.Succeeded())
	assert.Equal(t, "Invalid currency", resp.Message)
}

func TestInitiateTransactionNon200IsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server.URL).InitiateTransaction(InitiateRequest{TxRef: "tx-1"})
	assert.ErrorIs(t, err, ErrGatewayUnreachable)
}

func TestInitiateTransactionNetworkFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := testClient(server.URL).InitiateTransaction(InitiateRequest{TxRef: "tx-1"})
	assert.ErrorIs(t, err, ErrGatewayUnreachable)
}

func TestVerifyTransactionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/tx-1", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"status":"success","amount":150,"currency":"ETB","tx_ref":"tx-1"}}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).VerifyTransaction("tx-1")
	require.NoError(t, err)

	assert.True(t, resp.Succeeded())
	assert.Equal(t, "ETB", resp.Data.Currency)
}

func TestVerifyTransactionPendingChargeIsNotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Envelope succeeds but the charge itself is still pending.
		w.Write([]byte(`{"status":"success","data":{"status":"pending","tx_ref":"tx-1"}}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).VerifyTransaction("tx-1")
	require.NoError(t, err)

	assert.False(t, resp.Succeeded())
}

func TestVerifyTransactionNon200IsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).VerifyTransaction("tx-1")
	assert.ErrorIs(t, err, ErrGatewayUnreachable)
}

func TestCheckoutURL(t *testing.T) {
	assert.Equal(t, "https://checkout.chapa.co/checkout/payment/tx-1", CheckoutURL("tx-1"))
}
