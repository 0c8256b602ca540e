package repository

import (
	"context"
	"errors"

	"wishmanager-backend/internal/features/wish/models"
)

var ErrNotFound = errors.New("wish not found")

// WishRepository is the entity store boundary for wishes. The status
// transitions are conditional writes: applied == false means the wish no
// longer held the expected status when the write landed, and nothing was
// changed.
type WishRepository interface {
	Create(ctx context.Context, wish *models.Wish) error
	GetByID(ctx context.Context, id string) (*models.Wish, error)
	ListByWishlist(ctx context.Context, wishlistID string) ([]*models.Wish, error)
	// Update rewrites the descriptive fields; status and booking state
	// pass through unchanged.
	Update(ctx context.Context, wish *models.Wish) error
	Delete(ctx context.Context, id string) error

	// Book moves FREE -> BOOKED and records the booker in the same write.
	Book(ctx context.Context, id, userID string, hideBookerName bool) (bool, error)
	// Unbook moves BOOKED -> FREE and clears the booker.
	Unbook(ctx context.Context, id string) (bool, error)
	// SetStatusIf moves from -> to, leaving the booker untouched. Covers
	// the BOOKED <-> GIFTED edges.
	SetStatusIf(ctx context.Context, id string, from, to models.WishStatus) (bool, error)
}
