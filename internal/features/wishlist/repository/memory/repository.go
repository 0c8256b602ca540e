package memory

import (
	"context"
	"sync"

	"wishmanager-backend/internal/features/wishlist/models"
	"wishmanager-backend/internal/features/wishlist/repository"
)

type pairKey struct {
	wishlistID string
	userID     string
}

// Repository is an in-memory WishlistRepository with the same conditional
// semantics as the durable backends. Used by service tests; the Fail*
// fields inject store failures.
type Repository struct {
	mu          sync.Mutex
	wishlists   map[string]models.Wishlist
	memberships map[pairKey]models.Membership

	FailCreate        error
	FailAddMembership error
}

func NewRepository() *Repository {
	return &Repository{
		wishlists:   make(map[string]models.Wishlist),
		memberships: make(map[pairKey]models.Membership),
	}
}

func (r *Repository) Create(ctx context.Context, wishlist *models.Wishlist, owner *models.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// An injected failure writes neither entity, matching the all-or-nothing
	// contract of the durable backends.
	if r.FailCreate != nil {
		return r.FailCreate
	}

	r.wishlists[wishlist.ID] = *wishlist
	r.memberships[pairKey{owner.WishlistID, owner.UserID}] = *owner
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wishlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string, publicOnly bool) ([]*models.Wishlist, error) {
	return r.filter(func(w models.Wishlist) bool {
		return w.OwnerID == ownerID && (!publicOnly || w.IsPublic)
	}), nil
}

func (r *Repository) ListPublic(ctx context.Context) ([]*models.Wishlist, error) {
	return r.filter(func(w models.Wishlist) bool { return w.IsPublic }), nil
}

func (r *Repository) ListByMember(ctx context.Context, userID string) ([]*models.Wishlist, error) {
	r.mu.Lock()
	member := make(map[string]bool)
	for key := range r.memberships {
		if key.userID == userID {
			member[key.wishlistID] = true
		}
	}
	r.mu.Unlock()

	return r.filter(func(w models.Wishlist) bool { return member[w.ID] }), nil
}

func (r *Repository) filter(match func(models.Wishlist) bool) []*models.Wishlist {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Wishlist
	for _, w := range r.wishlists {
		if match(w) {
			copied := w
			out = append(out, &copied)
		}
	}
	return out
}

func (r *Repository) AddMembership(ctx context.Context, membership *models.Membership) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAddMembership != nil {
		return false, r.FailAddMembership
	}

	key := pairKey{membership.WishlistID, membership.UserID}
	if _, exists := r.memberships[key]; exists {
		return false, nil
	}
	r.memberships[key] = *membership
	return true, nil
}

func (r *Repository) GetMembership(ctx context.Context, wishlistID, userID string) (*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memberships[pairKey{wishlistID, userID}]
	if !ok {
		return nil, repository.ErrMembershipNotFound
	}
	return &m, nil
}

func (r *Repository) ListMemberships(ctx context.Context, wishlistID string) ([]*models.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Membership
	for key, m := range r.memberships {
		if key.wishlistID == wishlistID {
			copied := m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *Repository) DeleteMembership(ctx context.Context, wishlistID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{wishlistID, userID}
	if _, ok := r.memberships[key]; !ok {
		return repository.ErrMembershipNotFound
	}
	delete(r.memberships, key)
	return nil
}

// MembershipCount reports the number of membership rows for a wishlist.
// Test helper.
func (r *Repository) MembershipCount(wishlistID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for key := range r.memberships {
		if key.wishlistID == wishlistID {
			n++
		}
	}
	return n
}

// WishlistCount reports the number of stored wishlists. Test helper.
func (r *Repository) WishlistCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.wishlists)
}

// TotalMemberships reports the number of membership rows across all
// wishlists. Test helper.
func (r *Repository) TotalMemberships() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.memberships)
}
