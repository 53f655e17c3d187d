package dto

import (
	"fmt"
	"time"

	"github.com/artconnect/marketplace/internal/ai"
	"github.com/artconnect/marketplace/internal/models"
)

// DraftForm is the non-file part of the analyze-draft multipart form.
type DraftForm struct {
	Voice string `form:"voice" validate:"required,min=1,max=2000"`
}

type Suggestions struct {
	ArtForm       string `json:"art_form"`
	Title         string `json:"title"`
	PolishedVoice string `json:"polished_voice"`
	MinPrice      int    `json:"min_price"`
	MaxPrice      int    `json:"max_price"`
	Caption       string `json:"caption"`
}

type DraftResponse struct {
	DraftID     uint        `json:"draft_id"`
	Suggestions Suggestions `json:"suggestions"`
}

func NewDraftResponse(id uint, a *ai.Analysis) DraftResponse {
	return DraftResponse{
		DraftID: id,
		Suggestions: Suggestions{
			ArtForm:       a.ArtForm,
			Title:         a.Title,
			PolishedVoice: a.PolishedVoice,
			MinPrice:      a.MinPrice,
			MaxPrice:      a.MaxPrice,
			Caption:       a.Caption,
		},
	}
}

type PublishRequest struct {
	ArtID      uint `json:"art_id" validate:"required"`
	FinalPrice int  `json:"final_price" validate:"gt=0"`
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}

type ArtworkResponse struct {
	ID            uint       `json:"id"`
	OwnerPhone    string     `json:"owner_phone"`
	ArtForm       string     `json:"art_form"`
	Title         string     `json:"title"`
	Voice         string     `json:"voice"`
	PolishedVoice string     `json:"polished_voice"`
	SocialCaption string     `json:"social_caption,omitempty"`
	MinPrice      *int       `json:"min_price"`
	MaxPrice      *int       `json:"max_price"`
	Price         *int       `json:"price"`
	IsPublished   bool       `json:"is_published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ImageURL      string     `json:"image_url,omitempty"`
	Artist        string     `json:"artist,omitempty"`
	Score         *float32   `json:"score,omitempty"`
}

// NewArtworkResponse drops the image bytes; published artworks link to the
// public image endpoint instead.
func NewArtworkResponse(a *models.Artwork) ArtworkResponse {
	resp := ArtworkResponse{
		ID:            a.ID,
		OwnerPhone:    a.OwnerPhone,
		ArtForm:       a.ArtForm,
		Title:         a.Title,
		Voice:         a.Voice,
		PolishedVoice: a.PolishedVoice,
		SocialCaption: a.SocialCaption,
		MinPrice:      a.MinPrice,
		MaxPrice:      a.MaxPrice,
		Price:         a.Price,
		IsPublished:   a.IsPublished,
		PublishedAt:   a.PublishedAt,
		CreatedAt:     a.CreatedAt,
	}
	if a.IsPublished {
		resp.ImageURL = fmt.Sprintf("/art/image/%d", a.ID)
	}
	if a.Owner != nil {
		resp.Artist = a.Owner.FullName
	}
	return resp
}

func NewArtworkList(arts []models.Artwork) []ArtworkResponse {
	out := make([]ArtworkResponse, len(arts))
	for i := range arts {
		out[i] = NewArtworkResponse(&arts[i])
	}
	return out
}
