package store

import (
	"context"
	"fmt"
	"time"

	"github.com/artconnect/marketplace/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// ProfileUpdate carries the fields a user fills in during profile setup.
type ProfileUpdate struct {
	FullName string
	Location *string
	Role     string
}

// GetOrCreateSkeleton returns the user for phone, inserting an empty profile
// with IsNew set when none exists. needsProfile is true for new rows and for
// existing rows that never completed profile setup.
func (s *UserStore) GetOrCreateSkeleton(ctx context.Context, phone string) (*models.User, bool, error) {
	skeleton := models.User{
		Phone:    phone,
		Role:     models.RoleArtisan,
		IsNew:    true,
		JoinedAt: time.Now().UTC(),
	}
	// Concurrent first logins for the same phone both land here; the loser's
	// insert is a no-op and both read the same row back.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&skeleton).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.Get(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	return user, user.IsNew, nil
}

func (s *UserStore) Get(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "phone = ?", phone).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UpdateProfile overwrites name, location and role and clears IsNew for good.
func (s *UserStore) UpdateProfile(ctx context.Context, phone string, upd ProfileUpdate) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("phone = ?", phone).
		Updates(map[string]interface{}{
			"full_name": upd.FullName,
			"location":  upd.Location,
			"role":      upd.Role,
			"is_new":    false,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, phone)
}
