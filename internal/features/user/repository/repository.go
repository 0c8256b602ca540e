package repository

import (
	"context"
	"errors"

	"wishmanager-backend/internal/features/user/models"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists signals a lost race on the external identity index;
	// the caller should re-read the winner's row.
	ErrAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// Create inserts the user, conditional on the external identity
	// (telegram id or google subject) not being registered yet.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error)
	GetByGoogleSub(ctx context.Context, googleSub string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
