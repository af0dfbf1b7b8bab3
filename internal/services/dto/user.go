package dto

import (
	"time"

	"archived_backend/internal/models"
)

type UpdateUserRequest struct {
	NewUsername     string `json:"new_username" validate:"required,notblank,min=3,max=50"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// DeleteAccountRequest - пароль передается в query (?current_password=...)
type DeleteAccountRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password" validate:"required"`
}

type UserResponse struct {
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		Username:    user.Username,
		Email:       user.Email,
		CreatedDate: user.CreatedDate,
		UpdatedDate: user.UpdatedDate,
	}
}
