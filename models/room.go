package models

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       int64          `json:"price"` // monthly, in rupiah
	Stock       int            `json:"stock"`
	Images      datatypes.JSON `json:"images"` // ordered list of URLs
	IsAvailable bool           `json:"isAvailable" gorm:"default:true"`
}

var (
	ErrRoomNotFound   = errors.New("Kamar tidak ditemukan")
	ErrRoomOutOfStock = errors.New("Kamar tidak tersedia atau stok habis")
)

// Bookable reports whether one unit can be reserved right now.
func (r *Room) Bookable() bool {
	return r.IsAvailable && r.Stock >= 1
}
