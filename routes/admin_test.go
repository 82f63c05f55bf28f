package routes

import (
	"strings"
	"testing"
	"time"

	"dekites-server/models"

	"gorm.io/gorm"
)

func bookingAt(created time.Time, status models.BookingStatus, total int64) models.Booking {
	return models.Booking{
		Model:  gorm.Model{CreatedAt: created},
		Status: status,
		Total:  total,
	}
}

func TestMonthlyRevenueOnlyCountsConfirmed(t *testing.T) {
	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		bookingAt(now, models.StatusDikonfirmasi, 5_000_000),
		bookingAt(now, models.StatusDikonfirmasi, 2_000_000),
		bookingAt(now, models.StatusPending, 9_000_000),
		bookingAt(now, models.StatusDibatalkan, 9_000_000),
		bookingAt(now.AddDate(0, -2, 0), models.StatusDikonfirmasi, 3_000_000),
		bookingAt(now.AddDate(0, -7, 0), models.StatusDikonfirmasi, 8_000_000), // outside window
	}

	series := MonthlyRevenue(bookings, now)
	if len(series) != 6 {
		t.Fatalf("series length = %d, want 6", len(series))
	}

	if last := series[5]; last.Name != "Ags 26" || last.Total != 7_000_000 {
		t.Errorf("current month = %+v, want {Ags 26 7000000}", last)
	}
	if twoBack := series[3]; twoBack.Total != 3_000_000 {
		t.Errorf("two months back total = %d, want 3000000", twoBack.Total)
	}

	var sum int64
	for _, m := range series {
		sum += m.Total
	}
	if sum != 10_000_000 {
		t.Errorf("windowed revenue = %d, want 10000000", sum)
	}
}

func TestBuildBookingsCSVEmpty(t *testing.T) {
	if _, err := BuildBookingsCSV(nil); err == nil {
		t.Fatal("expected an error when there is nothing to export")
	}
}

func TestBuildBookingsCSV(t *testing.T) {
	created := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{
			Model:         gorm.Model{CreatedAt: created},
			ReferenceCode: "a1b2c3",
			User:          models.User{Name: "Budi Santoso"},
			Room:          models.Room{Name: "Deluxe A"},
			Status:        models.StatusDibatalkan,
			CancelReason:  `pindah kota, urusan "keluarga"`,
			Total:         15_000_000,
		},
		{
			Model:         gorm.Model{CreatedAt: created},
			ReferenceCode: "d4e5f6",
			User:          models.User{Name: "Siti"},
			Room:          models.Room{Name: "Standard B"},
			Status:        models.StatusDikonfirmasi,
			Total:         4_500_000,
		},
	}

	content, err := BuildBookingsCSV(bookings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(content, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if lines[0] != "ID Pesanan,Nama Pelanggan,Kamar,Tanggal Pemesanan,Status,Alasan Pembatalan,Total (Rp)" {
		t.Errorf("unexpected header: %s", lines[0])
	}

	// free text with commas and quotes must stay one field
	if want := `"pindah kota, urusan ""keluarga"""`; !strings.Contains(lines[1], want) {
		t.Errorf("cancel reason not escaped, row: %s", lines[1])
	}
	if !strings.Contains(lines[1], "09/03/2026") {
		t.Errorf("date missing or misformatted, row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",-,4500000") {
		t.Errorf("empty cancel reason should render as dash, row: %s", lines[2])
	}
}

func TestCsvField(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "-"},
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, c := range cases {
		if got := csvField(c.in); got != c.want {
			t.Errorf("csvField(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
