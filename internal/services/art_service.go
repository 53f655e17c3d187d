package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/artconnect/marketplace/internal/ai"
	"github.com/artconnect/marketplace/internal/jobs"
	"github.com/artconnect/marketplace/internal/models"
	"github.com/artconnect/marketplace/internal/social"
	"github.com/artconnect/marketplace/internal/store"
	"github.com/artconnect/marketplace/internal/vectorindex"
)

type ArtServiceDeps struct {
	Artworks    *store.ArtworkStore
	Analyzer    ai.Analyzer
	Embedder    ai.Embedder
	Transcriber ai.Transcriber
	Index       vectorindex.Index
	Jobs        jobs.Dispatcher
}

// ArtService drives an artwork through draft -> published -> deleted.
type ArtService struct {
	arts        *store.ArtworkStore
	analyzer    ai.Analyzer
	embedder    ai.Embedder
	transcriber ai.Transcriber
	index       vectorindex.Index
	jobs        jobs.Dispatcher
}

func NewArtService(d ArtServiceDeps) *ArtService {
	return &ArtService{
		arts:        d.Artworks,
		analyzer:    d.Analyzer,
		embedder:    d.Embedder,
		transcriber: d.Transcriber,
		index:       d.Index,
		jobs:        d.Jobs,
	}
}

// SubmitDraft analyzes the upload and stores it as a draft. Nothing is
// stored when analysis fails.
func (s *ArtService) SubmitDraft(ctx context.Context, phone string, image []byte, imageType, voice string) (*models.Artwork, *ai.Analysis, error) {
	analysis, err := s.analyzer.Analyze(ctx, image, voice)
	if err != nil {
		slog.Error("artwork analysis failed", "action", "analyze_draft", "phone", phone, "error", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstreamAnalysis, err)
	}

	minPrice, maxPrice := analysis.MinPrice, analysis.MaxPrice
	art := &models.Artwork{
		OwnerPhone:    phone,
		ImageData:     image,
		ImageType:     imageType,
		Voice:         voice,
		ArtForm:       analysis.ArtForm,
		Title:         analysis.Title,
		PolishedVoice: analysis.PolishedVoice,
		SocialCaption: analysis.Caption,
		MinPrice:      &minPrice,
		MaxPrice:      &maxPrice,
	}
	if err := s.arts.CreateDraft(ctx, art); err != nil {
		return nil, nil, err
	}

	slog.Info("draft created", "action", "analyze_draft", "phone", phone, "art_id", art.ID)
	return art, analysis, nil
}

// Publish prices the artwork, makes it visible and indexes it. The index
// write happens inside the publish transaction, so either both land or
// neither does. The social post is queued afterwards and may fail freely.
//
// The caller's ownership of the artwork is not checked.
func (s *ArtService) Publish(ctx context.Context, phone string, id uint, price int) (*models.Artwork, error) {
	draft, err := s.arts.GetMeta(ctx, id)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, draft.IndexText())
	if err != nil {
		slog.Error("embedding failed", "action", "publish", "art_id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	indexed := false
	art, err := s.arts.Publish(ctx, id, price, func(a *models.Artwork, owner *models.User) error {
		err := s.index.Upsert(ctx, vectorindex.Entry{
			ID:     a.ID,
			Vector: vector,
			Tag:    a.ArtForm,
			Price:  price,
			Artist: owner.FullName,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
		}
		indexed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrIndexUnavailable) {
			slog.Error("index upsert failed", "action", "publish", "art_id", id, "error", err)
		}
		// The commit failed after the upsert. A first publish leaves no
		// published row behind, so its index entry goes too.
		if indexed && !draft.IsPublished {
			if derr := s.index.Delete(context.WithoutCancel(ctx), id); derr != nil {
				slog.Error("index cleanup failed", "action", "publish", "art_id", id, "error", derr)
			}
		}
		return nil, err
	}

	caption := art.SocialCaption
	if caption == "" {
		caption = art.Title
	}
	job := jobs.SocialPost{
		ArtworkID: art.ID,
		Caption:   social.ComposeCaption(caption, art.Owner.FullName, price),
	}
	if err := s.jobs.DispatchSocialPost(context.WithoutCancel(ctx), job); err != nil {
		slog.Error("social post dispatch failed", "action", "social_post", "art_id", art.ID, "error", err)
	}

	slog.Info("artwork published", "action", "publish", "phone", phone, "art_id", art.ID, "price", price)
	return art, nil
}

// Delete removes an artwork owned by phone. The index entry goes first and
// its failure is only logged; the row delete is what hides the artwork.
func (s *ArtService) Delete(ctx context.Context, phone string, id uint) error {
	art, err := s.arts.GetMeta(ctx, id)
	if err != nil {
		return err
	}
	if art.OwnerPhone != phone {
		return store.ErrForbidden
	}

	if art.IsPublished {
		if err := s.index.Delete(ctx, id); err != nil {
			slog.Error("index delete failed", "action", "delete_artwork", "art_id", id, "error", err)
		}
	}

	if err := s.arts.Delete(ctx, id, phone); err != nil {
		return err
	}
	slog.Info("artwork deleted", "action", "delete_artwork", "phone", phone, "art_id", id)
	return nil
}

func (s *ArtService) ListOwn(ctx context.Context, phone string) ([]models.Artwork, error) {
	return s.arts.ListByOwner(ctx, phone)
}

func (s *ArtService) GetPublished(ctx context.Context, id uint) (*models.Artwork, error) {
	return s.arts.GetPublished(ctx, id)
}

// Transcribe turns a spoken description into text for the draft form.
func (s *ArtService) Transcribe(ctx context.Context, audio io.Reader, filename, contentType string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, filename, contentType)
	if err != nil {
		slog.Error("transcription failed", "action", "transcribe", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUpstreamAnalysis, err)
	}
	return text, nil
}
