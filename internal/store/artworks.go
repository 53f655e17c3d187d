package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artconnect/marketplace/internal/models"
	"gorm.io/gorm"
)

// Listing queries never load image bytes.
var listColumns = []string{
	"id", "owner_phone", "image_type", "voice", "art_form", "title", "polished_voice",
	"social_caption", "min_price", "max_price", "price", "is_published", "published_at",
	"created_at", "updated_at",
}

type ArtworkStore struct {
	db *gorm.DB
}

func NewArtworkStore(db *gorm.DB) *ArtworkStore {
	return &ArtworkStore{db: db}
}

// PublishHook runs inside the publish transaction after the row has been
// updated. Returning an error rolls the publication back.
type PublishHook func(art *models.Artwork, owner *models.User) error

// CreateDraft inserts art as an unpublished, unpriced draft.
func (s *ArtworkStore) CreateDraft(ctx context.Context, art *models.Artwork) error {
	art.ID = 0
	art.IsPublished = false
	art.Price = nil
	art.PublishedAt = nil
	if err := s.db.WithContext(ctx).Create(art).Error; err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

// Get returns an artwork in any state, including its image.
func (s *ArtworkStore) Get(ctx context.Context, id uint) (*models.Artwork, error) {
	var art models.Artwork
	if err := s.db.WithContext(ctx).First(&art, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &art, nil
}

// GetMeta is Get without the image bytes.
func (s *ArtworkStore) GetMeta(ctx context.Context, id uint) (*models.Artwork, error) {
	var art models.Artwork
	if err := s.db.WithContext(ctx).Select(listColumns).First(&art, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &art, nil
}

// GetPublished is the buyer-facing lookup; drafts are reported as not found.
func (s *ArtworkStore) GetPublished(ctx context.Context, id uint) (*models.Artwork, error) {
	var art models.Artwork
	if err := s.db.WithContext(ctx).Scopes(Published).First(&art, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &art, nil
}

func (s *ArtworkStore) ListByOwner(ctx context.Context, phone string) ([]models.Artwork, error) {
	var arts []models.Artwork
	if err := s.db.WithContext(ctx).Select(listColumns).
		Scopes(OwnedBy(phone)).
		Order("created_at DESC, id DESC").
		Find(&arts).Error; err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	return arts, nil
}

// ListPublished returns the most recently published artworks with their owners.
func (s *ArtworkStore) ListPublished(ctx context.Context, limit int) ([]models.Artwork, error) {
	var arts []models.Artwork
	if err := s.db.WithContext(ctx).Select(listColumns).Preload("Owner").
		Scopes(Published).
		Order("published_at DESC, id DESC").
		Limit(limit).
		Find(&arts).Error; err != nil {
		return nil, fmt.Errorf("failed to list published artworks: %w", err)
	}
	return arts, nil
}

// PublishedByIDs resolves index hits to published rows. Unknown or draft ids
// are absent from the result.
func (s *ArtworkStore) PublishedByIDs(ctx context.Context, ids []uint) (map[uint]models.Artwork, error) {
	out := make(map[uint]models.Artwork, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var arts []models.Artwork
	if err := s.db.WithContext(ctx).Select(listColumns).Preload("Owner").
		Scopes(Published).
		Where("id IN ?", ids).
		Find(&arts).Error; err != nil {
		return nil, fmt.Errorf("failed to load artworks: %w", err)
	}
	for _, a := range arts {
		out[a.ID] = a
	}
	return out, nil
}

// Publish sets the final price and flips the artwork to published in one
// transaction. Ownership is not checked here.
func (s *ArtworkStore) Publish(ctx context.Context, id uint, price int, hook PublishHook) (*models.Artwork, error) {
	var art models.Artwork
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select(listColumns).First(&art, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.Artwork{}).Where("id = ?", id).Updates(map[string]interface{}{
			"price":        price,
			"is_published": true,
			"published_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to publish artwork: %w", err)
		}
		art.Price = &price
		art.IsPublished = true
		art.PublishedAt = &now

		var owner models.User
		if err := tx.First(&owner, "phone = ?", art.OwnerPhone).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load owner: %w", err)
			}
			owner = models.User{Phone: art.OwnerPhone}
		}
		art.Owner = &owner

		if hook != nil {
			return hook(&art, &owner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &art, nil
}

// Delete removes the artwork permanently if requestingPhone owns it.
func (s *ArtworkStore) Delete(ctx context.Context, id uint, requestingPhone string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var art models.Artwork
		if err := tx.Select("id", "owner_phone").First(&art, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if art.OwnerPhone != requestingPhone {
			return ErrForbidden
		}
		if err := tx.Delete(&models.Artwork{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete artwork: %w", err)
		}
		return nil
	})
}

func (s *ArtworkStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Artwork{}).Count(&n).Error
	return n, err
}
