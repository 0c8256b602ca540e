package memory

import (
	"context"
	"sync"
	"time"

	"wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wish/repository"
)

// Repository is an in-memory WishRepository. Conditional transitions hold
// the lock across check and write, giving the same one-winner guarantee
// as the durable backends.
type Repository struct {
	mu     sync.Mutex
	wishes map[string]models.Wish

	FailBook error
}

func NewRepository() *Repository {
	return &Repository{wishes: make(map[string]models.Wish)}
}

func (r *Repository) Create(ctx context.Context, wish *models.Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wishes[wish.ID] = *wish
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wishes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *Repository) ListByWishlist(ctx context.Context, wishlistID string) ([]*models.Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Wish
	for _, w := range r.wishes {
		if w.WishlistID == wishlistID {
			copied := w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, wish *models.Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.wishes[wish.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = wish.Name
	stored.Description = wish.Description
	stored.Links = wish.Links
	stored.UpdatedAt = wish.UpdatedAt
	r.wishes[wish.ID] = stored
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.wishes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.wishes, id)
	return nil
}

func (r *Repository) Book(ctx context.Context, id, userID string, hideBookerName bool) (bool, error) {
	if r.FailBook != nil {
		return false, r.FailBook
	}
	return r.transition(id, models.StatusFree, func(w *models.Wish) {
		w.Status = models.StatusBooked
		w.BookedBy = userID
		w.HideBookerName = hideBookerName
	})
}

func (r *Repository) Unbook(ctx context.Context, id string) (bool, error) {
	return r.transition(id, models.StatusBooked, func(w *models.Wish) {
		w.Status = models.StatusFree
		w.BookedBy = ""
		w.HideBookerName = false
	})
}

func (r *Repository) SetStatusIf(ctx context.Context, id string, from, to models.WishStatus) (bool, error) {
	return r.transition(id, from, func(w *models.Wish) {
		w.Status = to
	})
}

func (r *Repository) transition(id string, expected models.WishStatus, apply func(*models.Wish)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wishes[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if w.Status != expected {
		return false, nil
	}
	apply(&w)
	w.UpdatedAt = time.Now()
	r.wishes[id] = w
	return true, nil
}
