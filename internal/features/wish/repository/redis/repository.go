package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wish/repository"
)

const keyPrefixWish = "wish:"

// casAttempts bounds the optimistic retry loop of a status transition.
const casAttempts = 5

type redisRepository struct {
	client *redis.Client
}

func NewWishRepository(client *redis.Client) repository.WishRepository {
	return &redisRepository{client: client}
}

func makeWishKey(id string) string {
	return keyPrefixWish + id
}

func makeWishlistWishesKey(wishlistID string) string {
	return fmt.Sprintf("wishlist:%s:wishes", wishlistID)
}

func (r *redisRepository) Create(ctx context.Context, wish *models.Wish) error {
	data, err := json.Marshal(wish)
	if err != nil {
		return fmt.Errorf("failed to marshal wish: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, makeWishKey(wish.ID), data, 0)
	pipe.SAdd(ctx, makeWishlistWishesKey(wish.WishlistID), wish.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) GetByID(ctx context.Context, id string) (*models.Wish, error) {
	data, err := r.client.Get(ctx, makeWishKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var wish models.Wish
	if err := json.Unmarshal(data, &wish); err != nil {
		return nil, err
	}
	return &wish, nil
}

func (r *redisRepository) ListByWishlist(ctx context.Context, wishlistID string) ([]*models.Wish, error) {
	ids, err := r.client.SMembers(ctx, makeWishlistWishesKey(wishlistID)).Result()
	if err != nil {
		return nil, err
	}

	wishes := make([]*models.Wish, 0, len(ids))
	for _, id := range ids {
		wish, err := r.GetByID(ctx, id)
		if err == repository.ErrNotFound {
			continue // stale index entry
		}
		if err != nil {
			return nil, err
		}
		wishes = append(wishes, wish)
	}
	return wishes, nil
}

func (r *redisRepository) Update(ctx context.Context, wish *models.Wish) error {
	// Only the descriptive fields may change; mutate them under WATCH so a
	// concurrent status transition is never overwritten.
	_, err := r.mutate(ctx, wish.ID, func(stored *models.Wish) bool {
		stored.Name = wish.Name
		stored.Description = wish.Description
		stored.Links = wish.Links
		stored.UpdatedAt = wish.UpdatedAt
		return true
	})
	return err
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	wish, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, makeWishKey(id))
	pipe.SRem(ctx, makeWishlistWishesKey(wish.WishlistID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisRepository) Book(ctx context.Context, id, userID string, hideBookerName bool) (bool, error) {
	return r.mutate(ctx, id, func(wish *models.Wish) bool {
		if wish.Status != models.StatusFree {
			return false
		}
		wish.Status = models.StatusBooked
		wish.BookedBy = userID
		wish.HideBookerName = hideBookerName
		wish.UpdatedAt = time.Now()
		return true
	})
}

func (r *redisRepository) Unbook(ctx context.Context, id string) (bool, error) {
	return r.mutate(ctx, id, func(wish *models.Wish) bool {
		if wish.Status != models.StatusBooked {
			return false
		}
		wish.Status = models.StatusFree
		wish.BookedBy = ""
		wish.HideBookerName = false
		wish.UpdatedAt = time.Now()
		return true
	})
}

func (r *redisRepository) SetStatusIf(ctx context.Context, id string, from, to models.WishStatus) (bool, error) {
	return r.mutate(ctx, id, func(wish *models.Wish) bool {
		if wish.Status != from {
			return false
		}
		wish.Status = to
		wish.UpdatedAt = time.Now()
		return true
	})
}

// mutate runs apply against the stored wish under WATCH and writes the
// result back in a MULTI block, retrying when a concurrent writer bumps
// the key. apply returning false means the precondition does not hold;
// the wish is left as is and (false, nil) is returned.
func (r *redisRepository) mutate(ctx context.Context, id string, apply func(*models.Wish) bool) (bool, error) {
	key := makeWishKey(id)

	for attempt := 0; attempt < casAttempts; attempt++ {
		var applied bool

		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err == redis.Nil {
				return repository.ErrNotFound
			}
			if err != nil {
				return err
			}

			var wish models.Wish
			if err := json.Unmarshal(data, &wish); err != nil {
				return err
			}

			if !apply(&wish) {
				return nil
			}

			updated, err := json.Marshal(&wish)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, 0)
				return nil
			})
			if err != nil {
				return err
			}
			applied = true
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue // lost the race, re-read and retry
		}
		if err != nil {
			return false, err
		}
		return applied, nil
	}
	return false, fmt.Errorf("wish %s: transaction kept failing after %d attempts", id, casAttempts)
}
