package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/artconnect/marketplace/internal/dto"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/artconnect/marketplace/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{4,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			if name := strings.Split(f.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// bind parses the JSON body into req and validates it. It writes the error
// response itself and reports whether the handler should continue.
func bind(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = validationError(c, "Invalid request body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		_ = validationError(c, describe(err))
		return false
	}
	return true
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func validationError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Code: "VALIDATION_FAILED", Message: message,
	})
}

// respondError maps a service or store error onto the response taxonomy.
func respondError(c *fiber.Ctx, err error) error {
	status, code, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err.Error(),
		)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Code: code, Message: message})
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredential):
		return fiber.StatusBadRequest, "INVALID_CREDENTIAL", "Invalid OTP"
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "UNAUTHENTICATED", "Unauthorized: invalid or expired token"
	case errors.Is(err, store.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "You do not own this artwork"
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "Not found"
	case errors.Is(err, services.ErrUpstreamAnalysis):
		return fiber.StatusBadGateway, "UPSTREAM_ANALYSIS_ERROR", "AI analysis failed, please try again"
	case errors.Is(err, services.ErrIndexUnavailable):
		return fiber.StatusBadGateway, "INDEX_ERROR", "Recommendation index unavailable, please try again"
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code >= fiber.StatusInternalServerError:
			return fe.Code, "INTERNAL", "Internal server error"
		case fe.Code == fiber.StatusNotFound:
			return fe.Code, "NOT_FOUND", fe.Message
		case fe.Code == fiber.StatusTooManyRequests:
			return fe.Code, "RATE_LIMITED", fe.Message
		case fe.Code == fiber.StatusUnauthorized:
			return fe.Code, "UNAUTHENTICATED", fe.Message
		default:
			return fe.Code, "VALIDATION_FAILED", fe.Message
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL", "Internal server error"
}

// ErrorHandler is the Fiber app error handler; anything a handler returns
// instead of writing gets the same JSON shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
