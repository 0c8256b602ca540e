package models

import (
	"time"

	usermodels "wishmanager-backend/internal/features/user/models"
)

// TelegramAuthRequest carries the raw Mini App init data string.
type TelegramAuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// GoogleAuthRequest carries the verified Google profile. The OAuth code
// exchange happens upstream; this service trusts the subject it is given.
type GoogleAuthRequest struct {
	Sub         string `json:"sub" binding:"required"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// TokenResponse is the issued session token with the resolved user.
type TokenResponse struct {
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"expires_at"`
	User      *usermodels.UserResponse `json:"user"`
}
