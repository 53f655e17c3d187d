// Package store persists users and artworks. It is the only stateful
// component besides the OTP table.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("not the owner of this artwork")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Published is a GORM scope limiting artworks to buyer-visible rows.
func Published(db *gorm.DB) *gorm.DB {
	return db.Where("is_published = ?", true)
}

// OwnedBy returns a GORM scope that filters artworks by owner phone.
func OwnedBy(phone string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_phone = ?", phone)
	}
}
