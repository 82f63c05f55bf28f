package models

import "testing"

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		role UserRole
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, false},
		{UserRole(""), false},
		{UserRole("Admin"), false}, // role strings are exact, no case folding
	}
	for _, c := range cases {
		u := User{Role: c.role}
		if got := u.IsAdmin(); got != c.want {
			t.Errorf("IsAdmin() with role %q = %v, want %v", c.role, got, c.want)
		}
	}
}
