// Package jobs runs work deferred until after a response is sent. Today that
// is the social media cross-post made when an artwork is published.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/artconnect/marketplace/internal/models"
	"github.com/artconnect/marketplace/internal/social"
)

const RKSocialPost = "social.post"

// SocialPost asks for artwork ArtworkID to be posted with Caption.
type SocialPost struct {
	ArtworkID uint   `json:"artwork_id"`
	Caption   string `json:"caption"`
}

type Dispatcher interface {
	DispatchSocialPost(ctx context.Context, job SocialPost) error
}

type artworkGetter interface {
	Get(ctx context.Context, id uint) (*models.Artwork, error)
}

// SocialPostHandler loads the artwork image and hands it to the poster.
type SocialPostHandler struct {
	arts   artworkGetter
	poster social.Poster
}

func NewSocialPostHandler(arts artworkGetter, poster social.Poster) *SocialPostHandler {
	return &SocialPostHandler{arts: arts, poster: poster}
}

func (h *SocialPostHandler) Handle(ctx context.Context, job SocialPost) error {
	art, err := h.arts.Get(ctx, job.ArtworkID)
	if err != nil {
		return fmt.Errorf("load artwork %d: %w", job.ArtworkID, err)
	}
	if !art.IsPublished {
		return fmt.Errorf("artwork %d is not published", job.ArtworkID)
	}
	if err := h.poster.Post(ctx, art.ImageData, job.Caption); err != nil {
		return err
	}
	slog.Info("social post created", "action", "social_post", "art_id", job.ArtworkID)
	return nil
}

// Inline runs jobs on a goroutine in this process. Failures are logged.
type Inline struct {
	handler *SocialPostHandler
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewInline(handler *SocialPostHandler, timeout time.Duration) *Inline {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Inline{handler: handler, timeout: timeout}
}

func (d *Inline) DispatchSocialPost(_ context.Context, job SocialPost) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Detached from the request: the response has already been sent.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.handler.Handle(ctx, job); err != nil {
			slog.Error("social post failed", "action", "social_post", "art_id", job.ArtworkID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every dispatched job has finished.
func (d *Inline) Wait() {
	d.wg.Wait()
}
