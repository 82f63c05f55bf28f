package routes

import (
	"log"
	"net/http"
	"time"

	"dekites-server/models"
	"dekites-server/payments"
	"dekites-server/storage"
	"dekites-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Payments is the checkout client, wired in main after the environment is
// loaded.
var Payments *payments.Client

type CreateBookingInput struct {
	RoomID    uint   `json:"roomId" validate:"required"`
	Months    int    `json:"months" validate:"required,gte=1,lte=24"`
	KtpName   string `json:"ktpName" validate:"required,max=256"`
	KtpNumber string `json:"ktpNumber" validate:"required,len=16,numeric"`
	CartID    uint   `json:"cartId"` // optional, converts an existing reservation
}

// CreateBooking creates a Pending booking and opens a Polar checkout session.
// A direct booking takes one unit of stock inside the same transaction, with
// the room row locked against a concurrent last-unit grab. A cart conversion
// deletes the cart entry instead: that unit was already taken when the entry
// was created.
func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var fromCart *models.Cart
	if input.CartID != 0 {
		var cart models.Cart
		if err := storage.DB.First(&cart, input.CartID).Error; err != nil {
			ctx.StatusCode(http.StatusNotFound)
			ctx.JSON(iris.Map{"error": "Keranjang tidak ditemukan"})
			return
		}
		if cart.UserID != userID || cart.RoomID != input.RoomID {
			ctx.StatusCode(http.StatusForbidden)
			ctx.JSON(iris.Map{"error": "You don't have permission to use this cart entry"})
			return
		}
		fromCart = &cart
	}

	checkIn := time.Now()
	booking := models.Booking{
		ReferenceCode: uuid.NewString(),
		UserID:        userID,
		RoomID:        input.RoomID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, input.Months, 0),
		Months:        input.Months,
		KtpName:       input.KtpName,
		KtpNumber:     input.KtpNumber,
		Status:        models.StatusPending,
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, input.RoomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.ErrRoomNotFound
			}
			return err
		}

		delta := models.CreationStockDelta(fromCart != nil)
		if delta < 0 && !room.Bookable() {
			return models.ErrRoomOutOfStock
		}

		booking.Total = models.CalculateTotal(room.Price, input.Months)
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if fromCart != nil {
			return tx.Delete(fromCart).Error
		}
		return tx.Model(&room).Update("stock", gorm.Expr("stock + ?", delta)).Error
	})

	switch err {
	case nil:
	case models.ErrRoomNotFound:
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": err.Error()})
		return
	case models.ErrRoomOutOfStock:
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "Stok kamar habis"})
		return
	default:
		log.Printf("[error] creating booking: %v", err)
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Gagal membuat pesanan"})
		return
	}

	storage.InvalidateRoomsCache(ctx.Request().Context())

	// The booking is committed; a checkout failure leaves it Pending for the
	// user to retry or an admin to resolve.
	checkout, err := Payments.CreateCheckout(ctx.Request().Context(), booking.ID, booking.Total, user.Email)
	if err != nil {
		log.Printf("[error] polar checkout for booking %d: %v", booking.ID, err)
		ctx.StatusCode(http.StatusBadGateway)
		ctx.JSON(iris.Map{"success": false, "booking": booking, "error": "Gagal membuat sesi pembayaran"})
		return
	}

	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "booking": booking, "url": checkout.URL})
}

func GetUserBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Where("user_id = ?", userID).Preload("Room").Order("created_at DESC").Find(&bookings).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to retrieve bookings"})
		return
	}

	ctx.JSON(bookings)
}

type CancelBookingInput struct {
	Reason string `json:"reason" validate:"required,max=1024"`
}

// CancelBooking files a cancellation request. The booking stays paid for and
// holds its unit until an admin approves; only then does stock come back.
func CancelBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid booking ID"})
		return
	}

	var input CancelBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Pesanan tidak ditemukan"})
		return
	}
	if booking.UserID != userID {
		ctx.StatusCode(http.StatusForbidden)
		ctx.JSON(iris.Map{"error": "You don't have permission to cancel this booking"})
		return
	}
	if !models.CanTransition(booking.Status, models.StatusMenungguPembatalan) {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "Pesanan tidak dapat dibatalkan dari status " + string(booking.Status)})
		return
	}

	if err := storage.DB.Model(&booking).Updates(map[string]interface{}{
		"status":        models.StatusMenungguPembatalan,
		"cancel_reason": input.Reason,
	}).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Gagal membatalkan pesanan"})
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

// ForceConfirmBooking is the manual-verification path: the owner marks their
// own Pending booking paid, used when the payment came in outside Polar.
func ForceConfirmBooking(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid booking ID"})
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var booking models.Booking
	if err := storage.DB.Preload("User").Preload("Room").First(&booking, id).Error; err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Pesanan tidak ditemukan"})
		return
	}
	if booking.UserID != userID {
		ctx.StatusCode(http.StatusForbidden)
		ctx.JSON(iris.Map{"error": "You don't have permission to confirm this booking"})
		return
	}
	// Only a Pending booking can be self-confirmed; resolving a cancellation
	// request back to Dikonfirmasi is the admin's call.
	if booking.Status != models.StatusPending {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "Pesanan tidak dapat dikonfirmasi dari status " + string(booking.Status)})
		return
	}

	if err := storage.DB.Model(&booking).Update("status", models.StatusDikonfirmasi).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Gagal mengkonfirmasi pesanan"})
		return
	}
	booking.Status = models.StatusDikonfirmasi

	utils.NotifyBookingConfirmed(&booking, true)

	ctx.JSON(iris.Map{"success": true})
}
