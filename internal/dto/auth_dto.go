package dto

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required,phone"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required,phone"`
	// Not validated: a malformed code is reported as a wrong code.
	OTP         string `json:"otp" form:"otp"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   string       `json:"expires_at"`
	IsNew       bool         `json:"is_new"`
	User        UserResponse `json:"user"`
}

// ErrorResponse is the body of every failed request. Code is stable and
// meant for clients; Message is for humans.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
