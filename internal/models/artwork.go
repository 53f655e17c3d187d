package models

import (
	"time"
)

// Artwork is either a draft (IsPublished false, Price nil) or published.
// There is no transition back to draft.
type Artwork struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerPhone    string     `gorm:"size:32;not null;index" json:"owner_phone"`
	Owner         *User      `gorm:"foreignKey:OwnerPhone;references:Phone" json:"-"`
	ImageData     []byte     `gorm:"not null" json:"-"`
	ImageType     string     `gorm:"size:50" json:"image_type"`
	Voice         string     `gorm:"type:text" json:"voice"`
	ArtForm       string     `gorm:"size:100" json:"art_form"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	PolishedVoice string     `gorm:"type:text" json:"polished_voice"`
	SocialCaption string     `gorm:"type:text" json:"social_caption"`
	MinPrice      *int       `json:"min_price"`
	MaxPrice      *int       `json:"max_price"`
	Price         *int       `json:"price"`
	IsPublished   bool       `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IndexText is the text embedded into the recommendation index.
func (a *Artwork) IndexText() string {
	return a.ArtForm + ". " + a.Title + ". " + a.PolishedVoice
}
