package services

import "errors"

var (
	ErrInvalidCredential = errors.New("invalid OTP")
	ErrUnauthenticated   = errors.New("invalid or expired session")
	ErrUpstreamAnalysis  = errors.New("artwork analysis failed")
	ErrIndexUnavailable  = errors.New("recommendation index unavailable")
)
