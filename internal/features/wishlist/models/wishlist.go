package models

import (
	"time"

	wishmodels "wishmanager-backend/internal/features/wish/models"
)

// Wishlist is a named, ownable collection of wishes. OwnerID is set at
// creation and immutable afterwards.
type Wishlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WishlistCreate carries the caller-supplied fields for a new wishlist.
type WishlistCreate struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

// InviteRequest names the user to add as a viewer.
type InviteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ListFilter narrows the wishlist listing. With neither field set the
// listing covers the wishlists the caller is a member of.
type ListFilter struct {
	OwnerID    string
	PublicOnly bool
}

// WishlistResponse is the API shape of a wishlist.
type WishlistResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WishlistDetailResponse embeds the wishes and memberships of a wishlist.
type WishlistDetailResponse struct {
	WishlistResponse
	Wishes  []*wishmodels.WishResponse `json:"wishes"`
	Members []*MembershipResponse      `json:"members"`
}

// ToResponse converts a wishlist to its API shape.
func (w *Wishlist) ToResponse() *WishlistResponse {
	return &WishlistResponse{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Title:       w.Title,
		Description: w.Description,
		IsPublic:    w.IsPublic,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
