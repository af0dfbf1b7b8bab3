package dto

// =======================
// Auth Request DTOs
// =======================

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,notblank,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	// bcrypt принимает не более 72 байт
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

// LoginRequest принимается и как JSON, и как application/x-www-form-urlencoded
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

// =======================
// Auth Response DTOs
// =======================

const TokenTypeBearer = "bearer"

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
