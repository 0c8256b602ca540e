package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wishmanager-backend/internal/features/wishlist/models"
	"wishmanager-backend/internal/features/wishlist/repository"
)

const (
	keyPrefixWishlist   = "wishlist:"
	keyPrefixMembership = "membership:"
	keyPublicWishlists  = "wishlists:public"
)

type redisRepository struct {
	client *redis.Client
}

func NewWishlistRepository(client *redis.Client) repository.WishlistRepository {
	return &redisRepository{client: client}
}

func makeWishlistKey(id string) string {
	return keyPrefixWishlist + id
}

// makeMembershipKey addresses the single membership row of a
// (user, wishlist) pair.
func makeMembershipKey(wishlistID, userID string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefixMembership, wishlistID, userID)
}

func makeMembersKey(wishlistID string) string {
	return makeWishlistKey(wishlistID) + ":members"
}

func makeUserWishlistsKey(userID string) string {
	return fmt.Sprintf("user:%s:wishlists", userID)
}

func makeOwnerWishlistsKey(userID string) string {
	return fmt.Sprintf("user:%s:owned", userID)
}

func (r *redisRepository) Create(ctx context.Context, wishlist *models.Wishlist, owner *models.Membership) error {
	wishlistData, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("failed to marshal wishlist: %w", err)
	}
	ownerData, err := json.Marshal(owner)
	if err != nil {
		return fmt.Errorf("failed to marshal owner membership: %w", err)
	}

	// One MULTI block: the wishlist and its owner membership land together.
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, makeWishlistKey(wishlist.ID), wishlistData, 0)
	pipe.Set(ctx, makeMembershipKey(wishlist.ID, owner.UserID), ownerData, 0)
	pipe.SAdd(ctx, makeMembersKey(wishlist.ID), owner.UserID)
	pipe.SAdd(ctx, makeUserWishlistsKey(owner.UserID), wishlist.ID)
	pipe.SAdd(ctx, makeOwnerWishlistsKey(wishlist.OwnerID), wishlist.ID)
	if wishlist.IsPublic {
		pipe.SAdd(ctx, keyPublicWishlists, wishlist.ID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetByID(ctx context.Context, id string) (*models.Wishlist, error) {
	data, err := r.client.Get(ctx, makeWishlistKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var wishlist models.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *redisRepository) ListByOwner(ctx context.Context, ownerID string, publicOnly bool) ([]*models.Wishlist, error) {
	wishlists, err := r.listSet(ctx, makeOwnerWishlistsKey(ownerID))
	if err != nil {
		return nil, err
	}
	if !publicOnly {
		return wishlists, nil
	}

	filtered := wishlists[:0]
	for _, w := range wishlists {
		if w.IsPublic {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

func (r *redisRepository) ListPublic(ctx context.Context) ([]*models.Wishlist, error) {
	return r.listSet(ctx, keyPublicWishlists)
}

func (r *redisRepository) ListByMember(ctx context.Context, userID string) ([]*models.Wishlist, error) {
	return r.listSet(ctx, makeUserWishlistsKey(userID))
}

func (r *redisRepository) listSet(ctx context.Context, setKey string) ([]*models.Wishlist, error) {
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}

	wishlists := make([]*models.Wishlist, 0, len(ids))
	for _, id := range ids {
		wishlist, err := r.GetByID(ctx, id)
		if err == repository.ErrNotFound {
			continue // stale index entry
		}
		if err != nil {
			return nil, err
		}
		wishlists = append(wishlists, wishlist)
	}
	return wishlists, nil
}

func (r *redisRepository) AddMembership(ctx context.Context, membership *models.Membership) (bool, error) {
	data, err := json.Marshal(membership)
	if err != nil {
		return false, fmt.Errorf("failed to marshal membership: %w", err)
	}

	// SetNX is the conditional insert: only the first writer for the
	// (user, wishlist) pair succeeds.
	ok, err := r.client.SetNX(ctx, makeMembershipKey(membership.WishlistID, membership.UserID), data, 0).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, makeMembersKey(membership.WishlistID), membership.UserID)
	pipe.SAdd(ctx, makeUserWishlistsKey(membership.UserID), membership.WishlistID)
	_, err = pipe.Exec(ctx)
	return true, err
}

func (r *redisRepository) GetMembership(ctx context.Context, wishlistID, userID string) (*models.Membership, error) {
	data, err := r.client.Get(ctx, makeMembershipKey(wishlistID, userID)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	var membership models.Membership
	if err := json.Unmarshal(data, &membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *redisRepository) ListMemberships(ctx context.Context, wishlistID string) ([]*models.Membership, error) {
	userIDs, err := r.client.SMembers(ctx, makeMembersKey(wishlistID)).Result()
	if err != nil {
		return nil, err
	}

	memberships := make([]*models.Membership, 0, len(userIDs))
	for _, userID := range userIDs {
		membership, err := r.GetMembership(ctx, wishlistID, userID)
		if err == repository.ErrMembershipNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, nil
}

func (r *redisRepository) DeleteMembership(ctx context.Context, wishlistID, userID string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, makeMembershipKey(wishlistID, userID))
	pipe.SRem(ctx, makeMembersKey(wishlistID), userID)
	pipe.SRem(ctx, makeUserWishlistsKey(userID), wishlistID)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return repository.ErrMembershipNotFound
	}
	return nil
}
