package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusDikonfirmasi, true},
		{StatusPending, StatusDibatalkan, true},
		{StatusPending, StatusMenungguPembatalan, false},
		{StatusDikonfirmasi, StatusMenungguPembatalan, true},
		{StatusDikonfirmasi, StatusDibatalkan, false},
		{StatusDikonfirmasi, StatusPending, false},
		{StatusMenungguPembatalan, StatusDibatalkan, true},
		{StatusMenungguPembatalan, StatusDikonfirmasi, true},
		{StatusMenungguPembatalan, StatusPending, false},
		{StatusDibatalkan, StatusDikonfirmasi, false},
		{StatusDibatalkan, StatusPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStockDelta(t *testing.T) {
	cases := []struct {
		name       string
		prev, next BookingStatus
		want       int
	}{
		{"approve cancellation", StatusMenungguPembatalan, StatusDibatalkan, 1},
		{"force cancel pending", StatusPending, StatusDibatalkan, 1},
		{"force cancel confirmed", StatusDikonfirmasi, StatusDibatalkan, 1},
		{"repeat cancel is a no-op", StatusDibatalkan, StatusDibatalkan, 0},
		{"confirm", StatusPending, StatusDikonfirmasi, 0},
		{"reject cancellation", StatusMenungguPembatalan, StatusDikonfirmasi, 0},
		{"request cancellation", StatusDikonfirmasi, StatusMenungguPembatalan, 0},
		{"reset to pending", StatusDikonfirmasi, StatusPending, 0},
	}
	for _, c := range cases {
		if got := StockDelta(c.prev, c.next); got != c.want {
			t.Errorf("%s: StockDelta(%q, %q) = %d, want %d", c.name, c.prev, c.next, got, c.want)
		}
	}
}

// A booking's lifetime must net out to at most one unit taken and one unit
// given back, whatever path its status walks.
func TestStockDeltaLifecycleNet(t *testing.T) {
	paths := [][]BookingStatus{
		{StatusPending, StatusDikonfirmasi},
		{StatusPending, StatusDibatalkan},
		{StatusPending, StatusDikonfirmasi, StatusMenungguPembatalan, StatusDibatalkan},
		{StatusPending, StatusDikonfirmasi, StatusMenungguPembatalan, StatusDikonfirmasi},
		// admin flapping after a cancellation must not credit stock twice
		{StatusPending, StatusDibatalkan, StatusDibatalkan, StatusDibatalkan},
	}
	for _, path := range paths {
		net := CreationStockDelta(false)
		for i := 1; i < len(path); i++ {
			net += StockDelta(path[i-1], path[i])
		}
		if net != -1 && net != 0 {
			t.Errorf("path %v nets %d units, want -1 (held) or 0 (returned)", path, net)
		}
		increments := 0
		for i := 1; i < len(path); i++ {
			if StockDelta(path[i-1], path[i]) > 0 {
				increments++
			}
		}
		if increments > 1 {
			t.Errorf("path %v increments stock %d times, want at most once", path, increments)
		}
	}
}

// A payment event delivered twice confirms once and mails once.
func TestConfirmationNotifies(t *testing.T) {
	cases := []struct {
		prev BookingStatus
		want bool
	}{
		{StatusPending, true},
		{StatusMenungguPembatalan, true},
		{StatusDibatalkan, true},
		{StatusDikonfirmasi, false}, // redelivery, invoice already sent
	}
	for _, c := range cases {
		if got := ConfirmationNotifies(c.prev); got != c.want {
			t.Errorf("ConfirmationNotifies(%q) = %v, want %v", c.prev, got, c.want)
		}
	}
}

func TestCreationStockDelta(t *testing.T) {
	if got := CreationStockDelta(false); got != -1 {
		t.Errorf("direct booking delta = %d, want -1", got)
	}
	if got := CreationStockDelta(true); got != 0 {
		t.Errorf("cart conversion delta = %d, want 0 (unit taken at cart time)", got)
	}
}

func TestCalculateTotal(t *testing.T) {
	if got := CalculateTotal(5_000_000, 3); got != 15_000_000 {
		t.Errorf("CalculateTotal(5000000, 3) = %d, want 15000000", got)
	}
	if got := CalculateTotal(2_500_000, 0); got != 2_500_000 {
		t.Errorf("zero months should price as one month, got %d", got)
	}
}

func TestRoomBookable(t *testing.T) {
	cases := []struct {
		name string
		room Room
		want bool
	}{
		{"in stock", Room{Stock: 1, IsAvailable: true}, true},
		{"out of stock", Room{Stock: 0, IsAvailable: true}, false},
		{"delisted", Room{Stock: 3, IsAvailable: false}, false},
	}
	for _, c := range cases {
		if got := c.room.Bookable(); got != c.want {
			t.Errorf("%s: Bookable() = %v, want %v", c.name, got, c.want)
		}
	}
}

// With one unit left, the first booking takes it and the second must be
// turned away by the stock gate.
func TestLastUnitGate(t *testing.T) {
	room := Room{Stock: 1, IsAvailable: true}

	if !room.Bookable() {
		t.Fatal("room with stock 1 should be bookable")
	}
	room.Stock += CreationStockDelta(false)

	if room.Stock != 0 {
		t.Fatalf("stock after first booking = %d, want 0", room.Stock)
	}
	if room.Bookable() {
		t.Error("second booking should be refused once stock hits 0")
	}
}
