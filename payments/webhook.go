package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Polar signs webhooks with the Standard Webhooks scheme: an HMAC-SHA256 over
// "<id>.<timestamp>.<body>" keyed by the endpoint secret, carried base64 in
// the webhook-signature header as one or more "v1,<sig>" entries.

var (
	ErrMissingSignatureHeaders = errors.New("missing webhook signature headers")
	ErrInvalidSignature        = errors.New("webhook signature mismatch")
	ErrTimestampOutOfTolerance = errors.New("webhook timestamp outside tolerance")
)

const timestampTolerance = 5 * time.Minute

// VerifySignature checks a raw webhook delivery against the endpoint secret.
// now is injectable for the timestamp-tolerance check.
func VerifySignature(secret string, body []byte, msgID, msgTimestamp, msgSignature string, now time.Time) error {
	if msgID == "" || msgTimestamp == "" || msgSignature == "" {
		return ErrMissingSignatureHeaders
	}

	ts, err := strconv.ParseInt(msgTimestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("bad webhook timestamp: %w", err)
	}
	sent := time.Unix(ts, 0)
	if sent.Before(now.Add(-timestampTolerance)) || sent.After(now.Add(timestampTolerance)) {
		return ErrTimestampOutOfTolerance
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("bad webhook secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, msgTimestamp)
	mac.Write(body)
	expected := mac.Sum(nil)

	// The header may carry several space-separated signatures (old and new
	// secret during rotation); any match accepts the delivery.
	for _, candidate := range strings.Fields(msgSignature) {
		parts := strings.SplitN(candidate, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		sig, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(sig, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Metadata map[string]string `json:"metadata"`
	} `json:"data"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// IsCheckoutSucceeded reports whether the event should confirm a booking.
func (e *WebhookEvent) IsCheckoutSucceeded() bool {
	return e.Type == "checkout.updated" && e.Data.Status == "succeeded"
}

// BookingID extracts the booking identifier planted in the checkout metadata.
func (e *WebhookEvent) BookingID() (uint, error) {
	raw, ok := e.Data.Metadata["bookingId"]
	if !ok || raw == "" {
		return 0, errors.New("event metadata has no bookingId")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad bookingId %q: %w", raw, err)
	}
	return uint(id), nil
}
