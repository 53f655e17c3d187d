package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artconnect/marketplace/internal/models"
	"github.com/artconnect/marketplace/internal/otp"
	"github.com/artconnect/marketplace/internal/store"
)

type AuthService struct {
	codes  *otp.Manager
	users  *store.UserStore
	tokens *TokenService
}

func NewAuthService(codes *otp.Manager, users *store.UserStore, tokens *TokenService) *AuthService {
	return &AuthService{codes: codes, users: users, tokens: tokens}
}

// LoginResult is returned after a successful OTP verification. IsNew tells
// the client to run profile setup.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	IsNew     bool
	User      *models.User
}

func (s *AuthService) SendOTP(ctx context.Context, phone string) error {
	return s.codes.RequestCode(ctx, phone)
}

// VerifyOTP logs phone in with code. The code is only used up once the
// user row and token exist, so a failure in between leaves it pending for
// another attempt.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*LoginResult, error) {
	if err := s.codes.CheckCode(ctx, phone, code); err != nil {
		return nil, credentialError(err)
	}

	user, isNew, err := s.users.GetOrCreateSkeleton(ctx, phone)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(phone)
	if err != nil {
		return nil, err
	}

	// A concurrent verify or a newer code may have won since the check.
	if err := s.codes.VerifyCode(ctx, phone, code); err != nil {
		return nil, credentialError(err)
	}

	slog.Info("login succeeded", "action", "login", "phone", phone, "is_new", isNew)
	return &LoginResult{Token: token, ExpiresAt: exp, IsNew: isNew, User: user}, nil
}

func credentialError(err error) error {
	if errors.Is(err, otp.ErrInvalidCode) {
		return ErrInvalidCredential
	}
	return err
}

// Authenticate verifies a raw bearer token and resolves it to a stored user.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	phone, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	return s.ResolveSubject(ctx, phone)
}

// ResolveSubject maps a verified token subject to its user. A missing user
// is reported exactly like a bad token.
func (s *AuthService) ResolveSubject(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.users.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, phone string, upd store.ProfileUpdate) (*models.User, error) {
	return s.users.UpdateProfile(ctx, phone, upd)
}
