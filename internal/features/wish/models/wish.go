package models

import "time"

// WishStatus is the claim state of a wish.
type WishStatus string

const (
	StatusFree   WishStatus = "FREE"
	StatusBooked WishStatus = "BOOKED"
	StatusGifted WishStatus = "GIFTED"
)

// Wish is a single desired item inside a wishlist. WishlistID is fixed at
// creation; BookedBy is set iff Status != FREE.
type Wish struct {
	ID             string     `json:"id"`
	WishlistID     string     `json:"wishlist_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Links          []string   `json:"links,omitempty"`
	Status         WishStatus `json:"status"`
	BookedBy       string     `json:"booked_by,omitempty"`
	HideBookerName bool       `json:"hide_booker_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// WishCreate carries the caller-supplied fields for a new wish.
type WishCreate struct {
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	Links       []string `json:"links" binding:"omitempty,dive,url"`
}

// WishUpdate rewrites the descriptive fields only; status and booking
// state are never touched through it.
type WishUpdate struct {
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	Links       []string `json:"links" binding:"omitempty,dive,url"`
}

// BookRequest carries the booking options.
type BookRequest struct {
	HideBookerName bool `json:"hide_booker_name"`
}

// WishResponse is the API shape of a wish.
type WishResponse struct {
	ID             string     `json:"id"`
	WishlistID     string     `json:"wishlist_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Links          []string   `json:"links"`
	Status         WishStatus `json:"status"`
	BookedBy       string     `json:"booked_by,omitempty"`
	HideBookerName bool       `json:"hide_booker_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToResponse converts a wish to its API shape.
func (w *Wish) ToResponse() *WishResponse {
	links := w.Links
	if links == nil {
		links = []string{}
	}
	return &WishResponse{
		ID:             w.ID,
		WishlistID:     w.WishlistID,
		Name:           w.Name,
		Description:    w.Description,
		Links:          links,
		Status:         w.Status,
		BookedBy:       w.BookedBy,
		HideBookerName: w.HideBookerName,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}
