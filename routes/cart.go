package routes

import (
	"net/http"

	"dekites-server/models"
	"dekites-server/storage"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddToCartInput struct {
	RoomID uint `json:"roomId" validate:"required"`
}

// AddToCart reserves one unit: the cart row and the stock decrement commit
// together, with the room row locked so two shoppers cannot both take the
// last unit.
func AddToCart(ctx iris.Context) {
	var input AddToCartInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, input.RoomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return models.ErrRoomNotFound
			}
			return err
		}

		// The duplicate check runs after the room lock: concurrent adds for
		// the same room serialize here, so the second request sees the first
		// one's committed cart row.
		var existing int64
		if err := tx.Model(&models.Cart{}).
			Where("user_id = ? AND room_id = ?", userID, input.RoomID).
			Count(&existing).Error; err != nil {
			return err
		}
		if err := models.CanAddToCart(existing, &room); err != nil {
			return err
		}

		if err := tx.Create(&models.Cart{UserID: userID, RoomID: input.RoomID}).Error; err != nil {
			return err
		}
		return tx.Model(&room).Update("stock", gorm.Expr("stock - 1")).Error
	})

	switch err {
	case nil:
		storage.InvalidateRoomsCache(ctx.Request().Context())
		ctx.StatusCode(http.StatusCreated)
		ctx.JSON(iris.Map{"success": true, "message": "Berhasil ditambahkan ke keranjang"})
	case models.ErrRoomNotFound:
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": err.Error()})
	case models.ErrCartDuplicate, models.ErrRoomOutOfStock:
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": err.Error()})
	default:
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Gagal menambahkan ke keranjang"})
	}
}

func GetUserCart(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var carts []models.Cart
	if err := storage.DB.Where("user_id = ?", userID).Preload("Room").Order("created_at DESC").Find(&carts).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to retrieve cart"})
		return
	}

	ctx.JSON(carts)
}

// RemoveFromCart gives the reserved unit back.
func RemoveFromCart(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid cart ID"})
		return
	}

	userID := ctx.Values().Get("userID").(uint)

	var cart models.Cart
	if err := storage.DB.First(&cart, id).Error; err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Keranjang tidak ditemukan"})
		return
	}
	if cart.UserID != userID {
		ctx.StatusCode(http.StatusForbidden)
		ctx.JSON(iris.Map{"error": "You don't have permission to remove this cart entry"})
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&cart).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).Where("id = ?", cart.RoomID).
			Update("stock", gorm.Expr("stock + 1")).Error
	})
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Gagal menghapus dari keranjang"})
		return
	}

	storage.InvalidateRoomsCache(ctx.Request().Context())
	ctx.JSON(iris.Map{"success": true, "message": "Berhasil dihapus dari keranjang"})
}
