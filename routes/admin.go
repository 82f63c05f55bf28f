package routes

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"dekites-server/models"
	"dekites-server/storage"
	"dekites-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type DashboardStats struct {
	Revenue   int64 `json:"revenue"`
	Active    int64 `json:"active"`
	Customers int64 `json:"customers"`
}

type MonthRevenue struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// GetDashboard aggregates everything the admin landing page renders in one
// response: headline stats, the latest bookings, the room inventory and the
// customer list.
func GetDashboard(ctx iris.Context) {
	var stats DashboardStats

	err := storage.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusDikonfirmasi).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.Revenue).Error
	if err != nil {
		log.Printf("[error] dashboard revenue: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusDikonfirmasi).
		Count(&stats.Active)

	weekAgo := time.Now().AddDate(0, 0, -7)
	storage.DB.Model(&models.User{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.Customers)

	var recent []models.Booking
	storage.DB.Preload("User").Preload("Room").
		Order("created_at DESC").Limit(10).Find(&recent)

	var allBookings []models.Booking
	storage.DB.Order("created_at DESC").Find(&allBookings)

	var rooms []models.Room
	storage.DB.Order("created_at DESC").Find(&rooms)

	var customers []models.User
	storage.DB.Where("role = ?", models.RoleUser).Order("created_at DESC").Find(&customers)

	ctx.JSON(iris.Map{
		"stats":    stats,
		"bookings": recent,
		"rooms":    rooms,
		"users":    customers,
		"chart":    MonthlyRevenue(allBookings, time.Now()),
	})
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Ags", "Sep", "Okt", "Nov", "Des"}

// MonthlyRevenue buckets confirmed-booking totals into the last six calendar
// months for the dashboard chart. Only Dikonfirmasi bookings count as
// revenue.
func MonthlyRevenue(bookings []models.Booking, now time.Time) []MonthRevenue {
	series := make([]MonthRevenue, 6)
	index := make(map[string]int, 6)
	for i := 0; i < 6; i++ {
		m := now.AddDate(0, i-5, 0)
		key := fmt.Sprintf("%s %02d", monthNames[m.Month()-1], m.Year()%100)
		series[i] = MonthRevenue{Name: key}
		index[key] = i
	}

	for _, b := range bookings {
		if b.Status != models.StatusDikonfirmasi {
			continue
		}
		key := fmt.Sprintf("%s %02d", monthNames[b.CreatedAt.Month()-1], b.CreatedAt.Year()%100)
		if i, ok := index[key]; ok {
			series[i].Total += b.Total
		}
	}
	return series
}

type UpdateBookingStatusInput struct {
	Status models.BookingStatus `json:"status"`
}

var knownStatuses = map[models.BookingStatus]bool{
	models.StatusPending:            true,
	models.StatusDikonfirmasi:       true,
	models.StatusMenungguPembatalan: true,
	models.StatusDibatalkan:         true,
}

// UpdateBookingStatus is the admin override: any target status is allowed,
// but the stock effect always goes through StockDelta so a cancellation
// credits the room exactly once no matter how often the action is repeated.
func UpdateBookingStatus(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid booking ID"})
		return
	}

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Invalid request payload"})
		return
	}
	if !knownStatuses[input.Status] {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Status tidak dikenal"})
		return
	}

	var booking models.Booking
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Preload("Room").First(&booking, id).Error; err != nil {
			return err
		}

		delta := models.StockDelta(booking.Status, input.Status)
		if err := tx.Model(&booking).Update("status", input.Status).Error; err != nil {
			return err
		}
		booking.Status = input.Status

		if delta != 0 {
			if err := tx.Model(&models.Room{}).Where("id = ?", booking.RoomID).
				Update("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.StatusCode(http.StatusNotFound)
			ctx.JSON(iris.Map{"error": "Booking tidak ditemukan"})
		} else {
			log.Printf("[error] updating booking %d status: %v", id, err)
			ctx.StatusCode(http.StatusInternalServerError)
			ctx.JSON(iris.Map{"error": "Gagal mengupdate status"})
		}
		return
	}

	storage.InvalidateRoomsCache(ctx.Request().Context())

	if booking.Status == models.StatusDikonfirmasi {
		utils.NotifyBookingConfirmed(&booking, false)
	}

	ctx.JSON(iris.Map{"success": true})
}

// csvField quotes a free-text value when it would break the row.
func csvField(value string) string {
	if value == "" {
		return "-"
	}
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// BuildBookingsCSV renders the bookings report. Returns an error when there
// is nothing to export so the handler can answer without producing a file.
func BuildBookingsCSV(bookings []models.Booking) (string, error) {
	if len(bookings) == 0 {
		return "", fmt.Errorf("Tidak ada data pesanan untuk diekspor")
	}

	rows := []string{"ID Pesanan,Nama Pelanggan,Kamar,Tanggal Pemesanan,Status,Alasan Pembatalan,Total (Rp)"}
	for _, b := range bookings {
		rows = append(rows, strings.Join([]string{
			b.ReferenceCode,
			csvField(b.User.Name),
			csvField(b.Room.Name),
			b.CreatedAt.Format("02/01/2006"),
			string(b.Status),
			csvField(b.CancelReason),
			fmt.Sprintf("%d", b.Total),
		}, ","))
	}
	return strings.Join(rows, "\n"), nil
}

// ExportBookingsCSV streams the bookings report as a download.
func ExportBookingsCSV(ctx iris.Context) {
	var bookings []models.Booking
	if err := storage.DB.Preload("User").Preload("Room").Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	content, err := BuildBookingsCSV(bookings)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("Laporan_Pesanan_DeKites_%s.csv", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	ctx.ContentType("text/csv")
	ctx.WriteString(content)
}
