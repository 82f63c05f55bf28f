package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	gorm.Model
	Name                string         `json:"name"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	Password            string         `json:"-"`
	Role                UserRole       `json:"role" gorm:"type:varchar(16);default:'user'"`
	SocialLogin         bool           `json:"socialLogin"`
	SocialProvider      string         `json:"socialProvider"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Bookings            []Booking      `json:"bookings,omitempty"`
	Carts               []Cart         `json:"carts,omitempty"`
}

// IsAdmin is the capability check for the admin dashboard; the role is a
// plain column, not a separate account type.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
