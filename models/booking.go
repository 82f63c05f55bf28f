package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending            BookingStatus = "Pending"
	StatusDikonfirmasi       BookingStatus = "Dikonfirmasi"
	StatusMenungguPembatalan BookingStatus = "Menunggu Pembatalan"
	StatusDibatalkan         BookingStatus = "Dibatalkan"
)

type Booking struct {
	gorm.Model
	ReferenceCode string        `json:"referenceCode" gorm:"size:64;index"`
	UserID        uint          `json:"userId"`
	User          User          `json:"user"`
	RoomID        uint          `json:"roomId"`
	Room          Room          `json:"room"`
	CheckIn       time.Time     `json:"checkIn"`
	CheckOut      time.Time     `json:"checkOut"`
	Months        int           `json:"months"`
	KtpName       string        `json:"ktpName"`
	KtpNumber     string        `json:"ktpNumber"`
	Total         int64         `json:"total"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(32);index"`
	CancelReason  string        `json:"cancelReason"`
}

// validNext holds the transitions a non-admin actor may trigger. Admin status
// overrides bypass this table; their stock effect still goes through
// StockDelta so a booking is never credited back more than once.
var validNext = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusDikonfirmasi: true, // payment webhook or dev force-confirm
		StatusDibatalkan:   true,
	},
	StatusDikonfirmasi: {
		StatusMenungguPembatalan: true, // user asks, admin decides
	},
	StatusMenungguPembatalan: {
		StatusDibatalkan:   true, // admin approves
		StatusDikonfirmasi: true, // admin rejects
	},
	StatusDibatalkan: {},
}

func CanTransition(from, to BookingStatus) bool {
	return validNext[from][to]
}

// StockDelta is the single source of the stock rules for a status change.
// Cancelling gives the unit back exactly once: a booking already Dibatalkan
// yields no further increment, so repeating an approval is a no-op on stock.
func StockDelta(prev, next BookingStatus) int {
	if next == StatusDibatalkan && prev != StatusDibatalkan {
		return 1
	}
	return 0
}

// ConfirmationNotifies reports whether confirming from prev should send the
// confirmation email and push. A booking that is already Dikonfirmasi was
// notified when it got there; a redelivered payment event must not produce a
// second invoice.
func ConfirmationNotifies(prev BookingStatus) bool {
	return prev != StatusDikonfirmasi
}

// CreationStockDelta covers the (none) -> Pending row: a direct booking takes
// one unit, a cart conversion already took it when the cart entry was made.
func CreationStockDelta(fromCart bool) int {
	if fromCart {
		return 0
	}
	return -1
}

// CalculateTotal prices a stay: monthly price times duration in months.
func CalculateTotal(price int64, months int) int64 {
	if months < 1 {
		months = 1
	}
	return price * int64(months)
}
