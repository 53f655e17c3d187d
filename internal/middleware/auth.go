package middleware

import (
	"errors"

	"github.com/artconnect/marketplace/internal/config"
	"github.com/artconnect/marketplace/internal/dto"
	"github.com/artconnect/marketplace/internal/models"
	"github.com/artconnect/marketplace/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "current_user"

// JWTProtected checks the bearer token and loads its user. Tokens without
// an expiry, and tokens whose phone has no user row, are rejected like any
// other bad token.
func JWTProtected(cfg *config.Config, auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		Claims:     &services.SessionClaims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			// jwtware does not require an exp claim; the session verifier
			// enforces expiry, subject and the backing user.
			user, err := auth.Authenticate(c.UserContext(), token.Raw)
			if err != nil {
				if errors.Is(err, services.ErrUnauthenticated) {
					return unauthorized(c)
				}
				return err
			}
			c.Locals(currentUserKey, user)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

// CurrentUser returns the user loaded by JWTProtected.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(currentUserKey).(*models.User)
	return user, ok && user != nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    "UNAUTHENTICATED",
		Message: "Unauthorized: invalid or expired token",
	})
}
