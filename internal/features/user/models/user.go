package models

import "time"

// User anchors an identity resolved from an external credential. Exactly
// one of TelegramID / GoogleSub is set; users are created on first
// successful authentication and never deleted here.
type User struct {
	ID          string    `json:"id"`
	TelegramID  string    `json:"telegram_id,omitempty"`
	GoogleSub   string    `json:"google_sub,omitempty"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserResponse is the public profile shape.
type UserResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
