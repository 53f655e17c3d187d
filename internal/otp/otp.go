// Package otp issues and checks one-time login codes keyed by phone number.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
)

const (
	codeMin = 1000
	codeMax = 9999
)

// ErrInvalidCode is returned when no code is pending for a phone or the
// submitted code does not match it.
var ErrInvalidCode = errors.New("invalid OTP")

// Store holds at most one pending code per phone.
type Store interface {
	// Put records code for phone, replacing any pending code.
	Put(ctx context.Context, phone, code string) error
	// Matches reports whether code is the pending code for phone without
	// consuming it.
	Matches(ctx context.Context, phone, code string) (bool, error)
	// Consume removes the pending code for phone if it equals code and
	// reports whether it did. A mismatch leaves the pending code in place.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

// Sender delivers a code out of band.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

type Manager struct {
	store    Store
	sender   Sender
	generate func() (string, error)
}

type Option func(*Manager)

// WithGenerator replaces the random code source.
func WithGenerator(fn func() (string, error)) Option {
	return func(m *Manager) { m.generate = fn }
}

func NewManager(store Store, sender Sender, opts ...Option) *Manager {
	m := &Manager{store: store, sender: sender, generate: RandomCode}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RandomCode returns a uniformly chosen code in [1000, 9999].
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

// RequestCode issues a fresh code for phone and hands it to the sender.
// Delivery failures are logged and not returned: the code is always in the
// service log for operators.
func (m *Manager) RequestCode(ctx context.Context, phone string) error {
	code, err := m.generate()
	if err != nil {
		return err
	}
	if err := m.store.Put(ctx, phone, code); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	slog.Info("otp issued", "action", "otp_issued", "phone", phone, "code", code)

	if err := m.sender.Send(ctx, phone, code); err != nil {
		slog.Warn("otp delivery failed", "action", "otp_delivery", "phone", phone, "error", err)
	}
	return nil
}

// CheckCode fails with ErrInvalidCode unless code is pending for phone. The
// code stays pending; VerifyCode is what uses it up.
func (m *Manager) CheckCode(ctx context.Context, phone, code string) error {
	ok, err := m.store.Matches(ctx, phone, code)
	if err != nil {
		return fmt.Errorf("failed to check code: %w", err)
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

// VerifyCode consumes the pending code for phone. It is single use.
func (m *Manager) VerifyCode(ctx context.Context, phone, code string) error {
	ok, err := m.store.Consume(ctx, phone, code)
	if err != nil {
		return fmt.Errorf("failed to check code: %w", err)
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}
