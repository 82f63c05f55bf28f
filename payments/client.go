// Package payments talks to Polar: outbound checkout-session creation and
// inbound webhook verification.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	productionAPI = "https://api.polar.sh"
	sandboxAPI    = "https://sandbox-api.polar.sh"
)

type Client struct {
	baseURL     string
	accessToken string
	productID   string
	successURL  string
	httpClient  *http.Client
}

// NewClientFromEnv builds the checkout client from POLAR_* variables.
// POLAR_SERVER=sandbox targets the sandbox API.
func NewClientFromEnv() *Client {
	baseURL := productionAPI
	if os.Getenv("POLAR_SERVER") == "sandbox" {
		baseURL = sandboxAPI
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: os.Getenv("POLAR_ACCESS_TOKEN"),
		productID:   os.Getenv("POLAR_PRODUCT_ID"),
		successURL:  os.Getenv("APP_URL") + "/pesanan",
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type checkoutRequest struct {
	Products      []string          `json:"products"`
	Amount        int64             `json:"amount"`
	SuccessURL    string            `json:"success_url"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

type Checkout struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// CreateCheckout opens a checkout session for a booking. The booking id rides
// along in the session metadata; the webhook reads it back to flip the
// booking status once the customer pays.
func (c *Client) CreateCheckout(ctx context.Context, bookingID uint, amount int64, customerEmail string) (*Checkout, error) {
	payload := checkoutRequest{
		Products:      []string{c.productID},
		Amount:        amount,
		SuccessURL:    c.successURL,
		CustomerEmail: customerEmail,
		Metadata:      map[string]string{"bookingId": fmt.Sprintf("%d", bookingID)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkouts/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("polar create checkout failed: %s (%d)", string(respBody), res.StatusCode)
	}

	var checkout Checkout
	if err := json.Unmarshal(respBody, &checkout); err != nil {
		return nil, fmt.Errorf("parse checkout json failed: %w", err)
	}
	return &checkout, nil
}
