package handlers

import (
	"github.com/artconnect/marketplace/internal/dto"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BuyerHandler struct {
	recommendations *services.RecommendationService
}

func NewBuyerHandler(recommendations *services.RecommendationService) *BuyerHandler {
	return &BuyerHandler{recommendations: recommendations}
}

func (h *BuyerHandler) Recommendations(c *fiber.Ctx) error {
	recs, err := h.recommendations.Recommend(c.UserContext(), c.Query("query"), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.ArtworkResponse, len(recs))
	for i := range recs {
		out[i] = dto.NewArtworkResponse(&recs[i].Artwork)
		if recs[i].Score != 0 {
			score := recs[i].Score
			out[i].Score = &score
		}
	}
	return c.JSON(out)
}
