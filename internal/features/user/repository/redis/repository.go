package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wishmanager-backend/internal/features/user/models"
	"wishmanager-backend/internal/features/user/repository"
)

const (
	keyPrefixUser          = "user:"
	keyPrefixTelegramIndex = "user:telegram:"
	keyPrefixGoogleIndex   = "user:google:"
)

type userRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func makeUserKey(id string) string {
	return keyPrefixUser + id
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	indexKey, err := externalIndexKey(user)
	if err != nil {
		return err
	}

	// SetNX on the identity index is the uniqueness guard: the first
	// writer wins, a lost race reports ErrAlreadyExists.
	ok, err := r.client.SetNX(ctx, indexKey, user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrAlreadyExists
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return r.client.Set(ctx, makeUserKey(user.ID), data, 0).Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	data, err := r.client.Get(ctx, makeUserKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	return r.getByIndex(ctx, keyPrefixTelegramIndex+telegramID)
}

func (r *userRepository) GetByGoogleSub(ctx context.Context, googleSub string) (*models.User, error) {
	return r.getByIndex(ctx, keyPrefixGoogleIndex+googleSub)
}

func (r *userRepository) getByIndex(ctx context.Context, indexKey string) (*models.User, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return r.client.Set(ctx, makeUserKey(user.ID), data, 0).Err()
}

func externalIndexKey(user *models.User) (string, error) {
	switch {
	case user.TelegramID != "":
		return keyPrefixTelegramIndex + user.TelegramID, nil
	case user.GoogleSub != "":
		return keyPrefixGoogleIndex + user.GoogleSub, nil
	default:
		return "", fmt.Errorf("user %s has no external identity", user.ID)
	}
}
