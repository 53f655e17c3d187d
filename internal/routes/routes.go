package routes

import (
	"time"

	"github.com/artconnect/marketplace/internal/config"
	"github.com/artconnect/marketplace/internal/handlers"
	"github.com/artconnect/marketplace/internal/middleware"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Art    *handlers.ArtHandler
	Buyer  *handlers.BuyerHandler
	Health *handlers.HealthHandler
}

// AppConfig is the Fiber configuration shared by the server and tests.
// Immutable copies request values out of fasthttp's pooled buffers, since
// parsed fields such as the phone number outlive the request.
func AppConfig() fiber.Config {
	return fiber.Config{
		BodyLimit:    30 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
		Immutable:    true,
	}
}

func Setup(app *fiber.App, cfg *config.Config, authService *services.AuthService, h Handlers) {
	// General rate limiter: 60 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.Check)

	// Auth: stricter limit, 10 req/min per IP
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/send-otp", h.Auth.SendOTP)
	auth.Post("/verify-otp", h.Auth.VerifyOTP)

	protected := middleware.JWTProtected(cfg, authService)

	user := app.Group("/user", protected)
	user.Get("/profile", h.User.Profile)
	user.Post("/profile", h.User.UpdateProfile)
	user.Get("/profile/artworks", h.User.Artworks)

	// Public artwork reads
	app.Get("/art/image/:id", h.Art.Image)
	app.Get("/art/:id", h.Art.Get)

	app.Post("/art/analyze-draft", protected, h.Art.AnalyzeDraft)
	app.Post("/art/transcribe", protected, h.Art.Transcribe)
	app.Post("/art/publish", protected, h.Art.Publish)
	app.Delete("/art/:id", protected, h.Art.Delete)

	app.Get("/buyer/recommendations", h.Buyer.Recommendations)
}
