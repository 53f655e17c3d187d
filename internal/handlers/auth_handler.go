package handlers

import (
	"time"

	"github.com/artconnect/marketplace/internal/dto"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if !bind(c, &req) {
		return nil
	}

	if err := h.authService.SendOTP(c.UserContext(), req.PhoneNumber); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "OTP generated"})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if !bind(c, &req) {
		return nil
	}

	res, err := h.authService.VerifyOTP(c.UserContext(), req.PhoneNumber, req.OTP)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.LoginResponse{
		Message:     "Login Successful",
		AccessToken: res.Token,
		TokenType:   "bearer",
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
		IsNew:       res.IsNew,
		User:        dto.NewUserResponse(res.User),
	})
}
