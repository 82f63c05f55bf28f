package models

import (
	"errors"

	"gorm.io/gorm"
)

// Cart is a soft reservation: creating an entry takes one unit of room stock,
// removing it gives the unit back. Converting an entry into a booking leaves
// stock alone so the unit is never taken twice.
type Cart struct {
	gorm.Model
	UserID uint `json:"userId" gorm:"index:idx_cart_user_room"`
	RoomID uint `json:"roomId" gorm:"index:idx_cart_user_room"`
	Room   Room `json:"room"`
}

var ErrCartDuplicate = errors.New("Kamar sudah ada di keranjang")

// CanAddToCart gates a cart add: one entry per user+room, and only while a
// unit is left. Callers must count existing entries with the room row locked,
// otherwise two concurrent adds can both see zero. The check lives here, not
// in a unique index, because soft-deleted cart rows would make a removed
// entry block re-adding.
func CanAddToCart(existing int64, room *Room) error {
	if existing > 0 {
		return ErrCartDuplicate
	}
	if !room.Bookable() {
		return ErrRoomOutOfStock
	}
	return nil
}
