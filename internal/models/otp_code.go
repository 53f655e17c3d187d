package models

import "time"

// OTPCode backs the database OTP store. At most one row per phone.
type OTPCode struct {
	Phone     string    `gorm:"primaryKey;size:32"`
	CodeHash  string    `gorm:"size:72;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
