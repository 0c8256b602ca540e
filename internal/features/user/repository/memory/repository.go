package memory

import (
	"context"
	"sync"

	"wishmanager-backend/internal/features/user/models"
	"wishmanager-backend/internal/features/user/repository"
)

// Repository is an in-memory UserRepository with the same conditional
// semantics as the durable backends. Used by service tests.
type Repository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewRepository() *Repository {
	return &Repository{users: make(map[string]models.User)}
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if user.TelegramID != "" && u.TelegramID == user.TelegramID {
			return repository.ErrAlreadyExists
		}
		if user.GoogleSub != "" && u.GoogleSub == user.GoogleSub {
			return repository.ErrAlreadyExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *Repository) GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.TelegramID == telegramID })
}

func (r *Repository) GetByGoogleSub(ctx context.Context, googleSub string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.GoogleSub == googleSub })
}

func (r *Repository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}
