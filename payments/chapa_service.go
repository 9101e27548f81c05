package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/alxtravel/alx_travel_app/configs"
)

// ErrGatewayUnreachable marks transport-level failures: network errors,
// timeouts, and non-2xx responses from Chapa. Callers must not treat these
// as a declined payment; the record stays as it was and the call is safe to
// retry. A business-level rejection comes back as a parsed response with a
// non-success status instead.
var ErrGatewayUnreachable = errors.New("payment gateway unreachable")

const checkoutURLPrefix = "https://checkout.chapa.co/checkout/payment/"

type ChapaClient struct {
	cfg    config.ChapaConfig
	client *http.Client
}

func NewChapaClient(cfg config.ChapaConfig) *ChapaClient {
	return &ChapaClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type InitiateRequest struct {
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	PhoneNumber   string            `json:"phone_number,omitempty"`
	TxRef         string            `json:"tx_ref"`
	CallbackURL   string            `json:"callback_url"`
	ReturnURL     string            `json:"return_url"`
	Customization map[string]string `json:"customization,omitempty"`
}

type InitiateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
	Raw []byte `json:"-"`
}

func (r *InitiateResponse) Succeeded() bool {
	return r.Status == "success"
}

type VerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string      `json:"status"`
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
		TxRef    string      `json:"tx_ref"`
	} `json:"data"`
	Raw []byte `json:"-"`
}

// Succeeded reports a settled charge. Chapa wraps the transaction state one
// level down, so both the envelope and the transaction status must agree.
func (r *VerifyResponse) Succeeded() bool {
	return r.Status == "success" && r.Data.Status == "success"
}

// CheckoutURL builds the hosted checkout page for a transaction reference.
// Used when a pending initiation is reused and no fresh gateway response is
// at hand.
func CheckoutURL(txRef string) string {
	return checkoutURLPrefix + txRef
}

func (c *ChapaClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *ChapaClient) InitiateTransaction(payload InitiateRequest) (*InitiateResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initiate payload: %v", err)
	}

	req, err := http.NewRequest("POST", c.cfg.BaseURL+"/transaction/initialize", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create initiate request: %v", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Chapa initialize returned status %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnreachable, resp.StatusCode)
	}

	var parsed InitiateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal initiate response: %v", err)
	}
	parsed.Raw = respBody

	return &parsed, nil
}

func (c *ChapaClient) VerifyTransaction(txRef string) (*VerifyResponse, error) {
	req, err := http.NewRequest("GET", c.cfg.BaseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %v", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Chapa verify returned status %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnreachable, resp.StatusCode)
	}

	var parsed VerifyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verify response: %v", err)
	}
	parsed.Raw = respBody

	return &parsed, nil
}
