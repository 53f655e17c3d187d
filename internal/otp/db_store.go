package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artconnect/marketplace/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore keeps pending codes in the shared database so that issuance and
// verification may land on different instances. Only a bcrypt hash of the
// code is stored.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Put(ctx context.Context, phone, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}
	row := models.OTPCode{Phone: phone, CodeHash: string(hash), CreatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "created_at"}),
	}).Create(&row).Error
}

// pending loads the row for phone when its hash matches code.
func (s *DBStore) pending(ctx context.Context, phone, code string) (*models.OTPCode, error) {
	var row models.OTPCode
	if err := s.db.WithContext(ctx).First(&row, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(code)) != nil {
		return nil, nil
	}
	return &row, nil
}

func (s *DBStore) Matches(ctx context.Context, phone, code string) (bool, error) {
	row, err := s.pending(ctx, phone, code)
	return row != nil, err
}

func (s *DBStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	row, err := s.pending(ctx, phone, code)
	if err != nil || row == nil {
		return false, err
	}

	// Conditional delete: if a newer code replaced this one, or another
	// instance consumed it first, nothing is removed.
	result := s.db.WithContext(ctx).
		Where("phone = ? AND code_hash = ?", phone, row.CodeHash).
		Delete(&models.OTPCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
