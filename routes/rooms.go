package routes

import (
	"encoding/json"
	"log"
	"net/http"

	"dekites-server/models"
	"dekites-server/storage"
	"dekites-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetRooms lists the available catalog. The serialized listing sits in Redis
// for up to a minute; any room or stock mutation drops the key.
func GetRooms(ctx iris.Context) {
	if cached := storage.GetCachedRooms(ctx.Request().Context()); cached != "" {
		ctx.ContentType("application/json")
		ctx.WriteString(cached)
		return
	}

	var rooms []models.Room
	if err := storage.DB.Where("is_available = ?", true).Order("created_at DESC").Find(&rooms).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to retrieve rooms"})
		return
	}

	payload, err := json.Marshal(rooms)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	storage.CacheRooms(ctx.Request().Context(), string(payload))

	ctx.ContentType("application/json")
	ctx.Write(payload)
}

func GetRoomByID(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid room ID"})
		return
	}

	var room models.Room
	if err := storage.DB.First(&room, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.StatusCode(http.StatusNotFound)
			ctx.JSON(iris.Map{"error": models.ErrRoomNotFound.Error()})
		} else {
			ctx.StatusCode(http.StatusInternalServerError)
			ctx.JSON(iris.Map{"error": "Failed to retrieve room"})
		}
		return
	}

	ctx.JSON(room)
}

type CreateRoomInput struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Description string   `json:"description" validate:"required"`
	Facilities  string   `json:"facilities"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images"` // base64 data URIs
}

// CreateRoom is the admin room form: images go to Cloudinary, the stored
// record keeps the returned URLs.
func CreateRoom(ctx iris.Context) {
	var input CreateRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if err := validate.Struct(input); err != nil {
		utils.HandleValidationErrors(readValidationErrors(err), ctx)
		return
	}

	description := input.Description
	if input.Facilities != "" {
		description += "\n\nFasilitas: " + input.Facilities
	}
	stock := input.Stock
	if stock == 0 {
		stock = 1
	}

	imageURLs := []string{}
	if len(input.Images) > 0 {
		urls, err := utils.UploadRoomImages(ctx.Request().Context(), input.Images)
		if err != nil {
			log.Printf("[error] uploading room images: %v", err)
			ctx.StatusCode(http.StatusBadGateway)
			ctx.JSON(iris.Map{"error": "Gagal mengunggah foto kamar"})
			return
		}
		imageURLs = urls
	}
	imagesJSON, err := json.Marshal(imageURLs)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	room := models.Room{
		Name:        input.Name,
		Description: description,
		Price:       input.Price,
		Stock:       stock,
		Images:      datatypes.JSON(imagesJSON),
		IsAvailable: true,
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		log.Printf("[error] creating room: %v", err)
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Gagal menambah kamar"})
		return
	}

	storage.InvalidateRoomsCache(ctx.Request().Context())
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "room": room})
}

func DeleteRoom(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid room ID"})
		return
	}

	if err := storage.DB.Delete(&models.Room{}, id).Error; err != nil {
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "Gagal menghapus kamar. Pastikan tidak ada booking aktif."})
		return
	}

	storage.InvalidateRoomsCache(ctx.Request().Context())
	ctx.JSON(iris.Map{"success": true})
}
