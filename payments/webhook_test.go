package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"
	"time"
)

const testKey = "0123456789abcdef0123456789abcdef"

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte(testKey))
}

func sign(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(testKey))
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"type":"checkout.updated"}`)
	id := "msg_123"
	ts := fmt.Sprintf("%d", now.Unix())

	if err := VerifySignature(testSecret(), body, id, ts, sign(id, ts, body), now); err != nil {
		t.Fatalf("valid delivery rejected: %v", err)
	}
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte(`{"type":"checkout.updated"}`)
	id := "msg_123"
	ts := fmt.Sprintf("%d", now.Unix())
	sig := sign(id, ts, body)

	if err := VerifySignature(testSecret(), []byte(`{"type":"forged"}`), id, ts, sig, now); err != ErrInvalidSignature {
		t.Errorf("tampered body: got %v, want ErrInvalidSignature", err)
	}
	if err := VerifySignature(testSecret(), body, "msg_other", ts, sig, now); err != ErrInvalidSignature {
		t.Errorf("swapped message id: got %v, want ErrInvalidSignature", err)
	}
}

func TestVerifySignatureMissingHeaders(t *testing.T) {
	now := time.Now()
	if err := VerifySignature(testSecret(), []byte("{}"), "", "", "", now); err != ErrMissingSignatureHeaders {
		t.Errorf("got %v, want ErrMissingSignatureHeaders", err)
	}
}

func TestVerifySignatureTimestampTolerance(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte("{}")
	id := "msg_123"

	stale := fmt.Sprintf("%d", now.Add(-10*time.Minute).Unix())
	if err := VerifySignature(testSecret(), body, id, stale, sign(id, stale, body), now); err != ErrTimestampOutOfTolerance {
		t.Errorf("stale delivery: got %v, want ErrTimestampOutOfTolerance", err)
	}

	future := fmt.Sprintf("%d", now.Add(10*time.Minute).Unix())
	if err := VerifySignature(testSecret(), body, id, future, sign(id, future, body), now); err != ErrTimestampOutOfTolerance {
		t.Errorf("future delivery: got %v, want ErrTimestampOutOfTolerance", err)
	}
}

// During secret rotation the header carries several signatures; one good one
// is enough.
func TestVerifySignatureMultiple(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	body := []byte("{}")
	id := "msg_123"
	ts := fmt.Sprintf("%d", now.Unix())

	header := "v1,Zm9yZWlnbg== " + sign(id, ts, body)
	if err := VerifySignature(testSecret(), body, id, ts, header, now); err != nil {
		t.Errorf("one valid signature among several rejected: %v", err)
	}
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"type": "checkout.updated",
		"data": {
			"id": "co_1",
			"status": "succeeded",
			"metadata": {"bookingId": "42"}
		}
	}`)

	event, err := ParseWebhookEvent(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !event.IsCheckoutSucceeded() {
		t.Error("succeeded checkout.updated should trigger confirmation")
	}
	id, err := event.BookingID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("BookingID() = %d, want 42", id)
	}
}

func TestWebhookEventIgnored(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"wrong type", `{"type":"checkout.created","data":{"status":"succeeded"}}`},
		{"not succeeded", `{"type":"checkout.updated","data":{"status":"open"}}`},
	}
	for _, c := range cases {
		event, err := ParseWebhookEvent([]byte(c.body))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if event.IsCheckoutSucceeded() {
			t.Errorf("%s: event should not confirm a booking", c.name)
		}
	}
}

func TestBookingIDMissingMetadata(t *testing.T) {
	event, err := ParseWebhookEvent([]byte(`{"type":"checkout.updated","data":{"status":"succeeded"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := event.BookingID(); err == nil {
		t.Error("expected an error for missing bookingId metadata")
	}
}
