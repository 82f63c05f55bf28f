package routes

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"dekites-server/models"
	"dekites-server/payments"
	"dekites-server/storage"
	"dekites-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// PolarWebhook receives the asynchronous payment result. An unverifiable
// signature is rejected outright; processing failures answer 400 and rely on
// Polar's own redelivery, nothing is retried here.
func PolarWebhook(ctx iris.Context) {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "unreadable body"})
		return
	}

	err = payments.VerifySignature(
		os.Getenv("POLAR_WEBHOOK_SECRET"),
		body,
		ctx.GetHeader("webhook-id"),
		ctx.GetHeader("webhook-timestamp"),
		ctx.GetHeader("webhook-signature"),
		time.Now(),
	)
	if err != nil {
		log.Printf("[error] webhook signature: %v", err)
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "invalid signature"})
		return
	}

	event, err := payments.ParseWebhookEvent(body)
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "malformed event"})
		return
	}

	if !event.IsCheckoutSucceeded() {
		// Not ours to act on; acknowledge so Polar stops redelivering.
		ctx.JSON(iris.Map{"received": true})
		return
	}

	bookingID, err := event.BookingID()
	if err != nil {
		log.Printf("[error] webhook event %s: %v", event.Data.ID, err)
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "missing booking metadata"})
		return
	}

	var booking models.Booking
	notify := false
	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Preload("Room").First(&booking, bookingID).Error; err != nil {
			return err
		}
		notify = models.ConfirmationNotifies(booking.Status)
		if !notify {
			return nil // redelivered event, already handled
		}
		booking.Status = models.StatusDikonfirmasi
		return tx.Model(&booking).Update("status", models.StatusDikonfirmasi).Error
	})
	if err != nil {
		log.Printf("[error] confirming booking %d from webhook: %v", bookingID, err)
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "booking update failed"})
		return
	}

	if notify {
		utils.NotifyBookingConfirmed(&booking, true)
	}

	ctx.JSON(iris.Map{"received": true})
}
