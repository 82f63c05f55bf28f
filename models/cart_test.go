package models

import "testing"

func TestCanAddToCart(t *testing.T) {
	inStock := Room{Stock: 2, IsAvailable: true}
	empty := Room{Stock: 0, IsAvailable: true}

	if err := CanAddToCart(0, &inStock); err != nil {
		t.Errorf("fresh add rejected: %v", err)
	}

	// a second entry for the same user+room is refused even with stock left
	if err := CanAddToCart(1, &inStock); err != ErrCartDuplicate {
		t.Errorf("duplicate add: got %v, want ErrCartDuplicate", err)
	}

	if err := CanAddToCart(0, &empty); err != ErrRoomOutOfStock {
		t.Errorf("add with no stock: got %v, want ErrRoomOutOfStock", err)
	}

	// the duplicate wins over the stock message: the user already holds a unit
	if err := CanAddToCart(1, &empty); err != ErrCartDuplicate {
		t.Errorf("duplicate with no stock: got %v, want ErrCartDuplicate", err)
	}
}
