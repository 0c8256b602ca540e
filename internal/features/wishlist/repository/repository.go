package repository

import (
	"context"
	"errors"

	"wishmanager-backend/internal/features/wishlist/models"
)

var (
	ErrNotFound           = errors.New("wishlist not found")
	ErrMembershipNotFound = errors.New("membership not found")
)

// WishlistRepository is the entity store boundary for wishlists and
// memberships. Methods returning (applied bool) are conditional writes:
// applied == false means the precondition did not hold at write time.
type WishlistRepository interface {
	// Create persists the wishlist together with its owner membership in
	// one atomic unit; a wishlist must never exist without it.
	Create(ctx context.Context, wishlist *models.Wishlist, owner *models.Membership) error
	GetByID(ctx context.Context, id string) (*models.Wishlist, error)
	ListByOwner(ctx context.Context, ownerID string, publicOnly bool) ([]*models.Wishlist, error)
	ListPublic(ctx context.Context) ([]*models.Wishlist, error)
	ListByMember(ctx context.Context, userID string) ([]*models.Wishlist, error)

	// AddMembership inserts the row conditional on no membership existing
	// for the (user, wishlist) pair.
	AddMembership(ctx context.Context, membership *models.Membership) (bool, error)
	GetMembership(ctx context.Context, wishlistID, userID string) (*models.Membership, error)
	ListMemberships(ctx context.Context, wishlistID string) ([]*models.Membership, error)
	DeleteMembership(ctx context.Context, wishlistID, userID string) error
}
