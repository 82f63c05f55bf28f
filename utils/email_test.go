package utils

import (
	"errors"
	"strings"
	"testing"
	"time"

	"dekites-server/models"
)

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1500, "1.500"},
		{5000000, "5.000.000"},
		{15000000, "15.000.000"},
		{1234567890, "1.234.567.890"},
	}
	for _, c := range cases {
		if got := FormatRupiah(c.in); got != c.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func sampleBooking() *models.Booking {
	checkIn := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	return &models.Booking{
		ReferenceCode: "ref-123",
		User:          models.User{Name: "Budi", Email: "budi@example.com"},
		Room:          models.Room{Name: "Deluxe A"},
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 3, 0),
		Total:         15_000_000,
	}
}

func TestInvoiceEmail(t *testing.T) {
	b := sampleBooking()
	subject, html := InvoiceEmail(b)

	if subject != "Invoice Pembayaran Lunas - Deluxe A" {
		t.Errorf("unexpected subject: %s", subject)
	}
	for _, fragment := range []string{"Budi", "Deluxe A", "Rp 15.000.000", "01/05/2026", "01/08/2026", "LUNAS"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("invoice body missing %q", fragment)
		}
	}
}

// Confirming a booking sends exactly one email, to the booking's own user.
func TestNotifyBookingConfirmedSendsOnce(t *testing.T) {
	orig := sendMail
	defer func() { sendMail = orig }()

	var sent []string
	sendMail = func(to, toName, subject, html string) error {
		sent = append(sent, to)
		return nil
	}

	b := sampleBooking()
	NotifyBookingConfirmed(b, true)

	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want exactly 1", len(sent))
	}
	if sent[0] != "budi@example.com" {
		t.Errorf("email went to %s, want the booking's user", sent[0])
	}
}

// Email failures are logged, never propagated: the status change stands.
func TestNotifyBookingConfirmedSwallowsFailure(t *testing.T) {
	orig := sendMail
	defer func() { sendMail = orig }()
	sendMail = func(to, toName, subject, html string) error {
		return errTest
	}

	// must not panic or surface the error
	NotifyBookingConfirmed(sampleBooking(), false)
}

var errTest = errors.New("smtp down")

func TestConfirmationEmail(t *testing.T) {
	b := sampleBooking()
	subject, html := ConfirmationEmail(b)

	if !strings.Contains(subject, "Dikonfirmasi") {
		t.Errorf("unexpected subject: %s", subject)
	}
	for _, fragment := range []string{"Budi", "Deluxe A", "ref-123", "Rp 15.000.000"} {
		if !strings.Contains(html, fragment) {
			t.Errorf("confirmation body missing %q", fragment)
		}
	}
}
