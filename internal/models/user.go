package models

import (
	"time"
)

const (
	RoleArtisan = "Artisan"
	RoleBuyer   = "Buyer"
)

// User is keyed by phone number, which is also the login credential.
// A row exists once the phone has passed OTP verification at least once.
type User struct {
	Phone     string    `gorm:"primaryKey;size:32" json:"phone"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	Role      string    `gorm:"size:20;default:'Artisan'" json:"role"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	IsNew     bool      `gorm:"not null;default:true" json:"is_new"`
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Artworks  []Artwork `gorm:"foreignKey:OwnerPhone;references:Phone" json:"-"`
}
