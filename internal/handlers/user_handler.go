package handlers

import (
	"github.com/artconnect/marketplace/internal/dto"
	"github.com/artconnect/marketplace/internal/middleware"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/artconnect/marketplace/internal/store"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService *services.AuthService
	artService  *services.ArtService
}

func NewUserHandler(authService *services.AuthService, artService *services.ArtService) *UserHandler {
	return &UserHandler{authService: authService, artService: artService}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var req dto.UpdateProfileRequest
	if !bind(c, &req) {
		return nil
	}

	updated, err := h.authService.UpdateProfile(c.UserContext(), user.Phone, store.ProfileUpdate{
		FullName: req.FullName,
		Location: req.Location,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    dto.NewUserResponse(updated),
	})
}

func (h *UserHandler) Artworks(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	arts, err := h.artService.ListOwn(c.UserContext(), user.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewArtworkList(arts))
}
