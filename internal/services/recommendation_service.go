package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/artconnect/marketplace/internal/ai"
	"github.com/artconnect/marketplace/internal/models"
	"github.com/artconnect/marketplace/internal/store"
	"github.com/artconnect/marketplace/internal/vectorindex"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
)

type Recommendation struct {
	Artwork models.Artwork
	Score   float32
}

type RecommendationService struct {
	arts     *store.ArtworkStore
	embedder ai.Embedder
	index    vectorindex.Index
}

func NewRecommendationService(arts *store.ArtworkStore, embedder ai.Embedder, index vectorindex.Index) *RecommendationService {
	return &RecommendationService{arts: arts, embedder: embedder, index: index}
}

// Recommend returns published artworks ranked by similarity to query. An
// empty query returns the latest published artworks.
func (s *RecommendationService) Recommend(ctx context.Context, query string, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecommendations
	}
	if limit > maxRecommendations {
		limit = maxRecommendations
	}

	query = strings.TrimSpace(query)
	if query == "" {
		arts, err := s.arts.ListPublished(ctx, limit)
		if err != nil {
			return nil, err
		}
		out := make([]Recommendation, len(arts))
		for i, a := range arts {
			out[i] = Recommendation{Artwork: a}
		}
		return out, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	hits, err := s.index.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	ids := make([]uint, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	rows, err := s.arts.PublishedByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(hits))
	for _, h := range hits {
		// Stale index entries without a published row are skipped.
		a, ok := rows[h.ID]
		if !ok {
			continue
		}
		out = append(out, Recommendation{Artwork: a, Score: h.Score})
	}
	return out, nil
}
