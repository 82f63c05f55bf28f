package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"dekites-server/models"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// SendMail delivers one transactional HTML email through Mailjet. Callers
// treat failures as non-critical: log and move on, the booking state change
// already happened.
func SendMail(to string, toName string, subject string, htmlBody string) error {
	publicKey := os.Getenv("MAILJET_API_KEY")
	secretKey := os.Getenv("MAILJET_SECRET_KEY")
	if publicKey == "" || secretKey == "" {
		return fmt.Errorf("mailjet keys are not configured")
	}

	client := mailjet.NewMailjetClient(publicKey, secretKey)
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: os.Getenv("EMAIL_FROM"),
					Name:  "De'Kites Admin",
				},
				To: &mailjet.RecipientsV31{
					{
						Email: to,
						Name:  toName,
					},
				},
				Subject:  subject,
				HTMLPart: htmlBody,
			},
		},
	}

	if _, err := client.SendMailV31(&messages); err != nil {
		return err
	}
	return nil
}

// FormatRupiah renders an amount with Indonesian thousand separators,
// e.g. 15000000 -> "15.000.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatPeriod(t time.Time) string {
	return t.Format("02/01/2006")
}

// InvoiceEmail is the "payment received" mail sent after the webhook confirms
// a checkout, and by the manual force-confirm path.
func InvoiceEmail(b *models.Booking) (subject string, html string) {
	subject = fmt.Sprintf("Invoice Pembayaran Lunas - %s", b.Room.Name)
	html = fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 8px;">
			<h2 style="color: #0f172a; text-transform: uppercase; letter-spacing: 2px;">De'Kites Premium Living</h2>
			<p style="color: #64748b;">Halo <strong>%s</strong>,</p>
			<p style="color: #64748b;">Terima kasih! Pembayaran Anda telah kami terima.</p>

			<div style="background-color: #f8fafc; padding: 15px; border-left: 4px solid #10b981; margin: 20px 0;">
				<h3 style="margin: 0 0 10px 0;">Detail Reservasi:</h3>
				<ul style="list-style: none; padding: 0; margin: 0; color: #334155;">
					<li style="margin-bottom: 5px;"><strong>Kamar:</strong> %s</li>
					<li style="margin-bottom: 5px;"><strong>Periode:</strong> %s - %s</li>
					<li style="margin-bottom: 5px;"><strong>Total Bayar:</strong> Rp %s</li>
					<li style="margin-bottom: 5px;"><strong>Status:</strong> <span style="color: #10b981; font-weight: bold;">LUNAS</span></li>
				</ul>
			</div>

			<p style="color: #64748b; font-size: 12px;">Simpan email ini sebagai bukti pembayaran yang sah.</p>
		</div>`,
		b.User.Name, b.Room.Name, formatPeriod(b.CheckIn), formatPeriod(b.CheckOut), FormatRupiah(b.Total))
	return subject, html
}

// ConfirmationEmail is the mail sent when an administrator confirms a booking
// from the dashboard.
func ConfirmationEmail(b *models.Booking) (subject string, html string) {
	subject = "Horee! Pesanan Kamar De'Kites Anda Dikonfirmasi"
	html = fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; color: #0f172a; padding: 20px; max-width: 600px; margin: 0 auto; border: 1px solid #e2e8f0; border-radius: 8px;">
			<h2 style="color: #10b981; margin-bottom: 5px;">Halo %s,</h2>
			<p style="font-size: 16px;">Kabar gembira! Pembayaran dan pemesanan Anda untuk kamar <strong>%s</strong> telah berhasil ditinjau dan dikonfirmasi oleh Administrator kami.</p>

			<div style="background-color: #f8fafc; padding: 15px; border-radius: 6px; margin: 20px 0;">
				<p style="margin: 0; font-size: 14px; color: #64748b;">ID Pesanan: <span style="color: #0f172a; font-family: monospace;">%s</span></p>
				<p style="margin: 5px 0 0 0; font-size: 14px; color: #64748b;">Total Pembayaran: <strong style="color: #10b981; font-size: 18px;">Rp %s</strong></p>
			</div>

			<p style="font-size: 14px; line-height: 1.6;">Silakan hubungi staf operasional kami saat Anda siap untuk melakukan <em>Check-In</em> atau pengambilan kunci. Terima kasih telah memilih De'Kites Premium Living!</p>

			<hr style="border: none; border-top: 1px solid #e2e8f0; margin: 30px 0;" />
			<p style="font-size: 12px; color: #94a3b8; text-align: center;">Email ini dihasilkan secara otomatis oleh Sistem Manajemen De'Kites.</p>
		</div>`,
		b.User.Name, b.Room.Name, b.ReferenceCode, FormatRupiah(b.Total))
	return subject, html
}

// seam for tests
var sendMail = SendMail

// NotifyBookingConfirmed delivers the confirmation side effects: email always,
// push only when the user registered tokens and allows it. Never fails the
// caller.
func NotifyBookingConfirmed(b *models.Booking, invoice bool) {
	var subject, html string
	if invoice {
		subject, html = InvoiceEmail(b)
	} else {
		subject, html = ConfirmationEmail(b)
	}
	if err := sendMail(b.User.Email, b.User.Name, subject, html); err != nil {
		log.Printf("[error] sending confirmation email for booking %d: %v", b.ID, err)
	}
	PushBookingConfirmed(&b.User, b)
}
