package dto

import (
	"time"

	"github.com/artconnect/marketplace/internal/models"
)

type UpdateProfileRequest struct {
	FullName string  `json:"full_name" validate:"required,min=1,max=255"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Role     string  `json:"role" validate:"required,oneof=Artisan Buyer"`
}

type UserResponse struct {
	Phone    string    `json:"phone"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Location *string   `json:"location,omitempty"`
	IsNew    bool      `json:"is_new"`
	JoinedAt time.Time `json:"joined_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		Phone:    u.Phone,
		FullName: u.FullName,
		Role:     u.Role,
		Location: u.Location,
		IsNew:    u.IsNew,
		JoinedAt: u.JoinedAt,
	}
}
