package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/user/models"
	"wishmanager-backend/internal/features/user/repository"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.UserResponse, error)
	// GetOrCreateByTelegram resolves the user for a verified Telegram
	// identity, creating the row on first authentication.
	GetOrCreateByTelegram(ctx context.Context, telegramID, displayName, avatarURL string) (*models.User, error)
	// GetOrCreateByGoogle does the same for a Google subject.
	GetOrCreateByGoogle(ctx context.Context, googleSub, displayName, avatarURL string) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeUserNotFound, "user not found").WithDetail("user_id", id)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("get user", err)
	}
	return toResponse(user), nil
}

func (s *userService) GetOrCreateByTelegram(ctx context.Context, telegramID, displayName, avatarURL string) (*models.User, error) {
	return s.getOrCreate(ctx,
		func(ctx context.Context) (*models.User, error) { return s.repo.GetByTelegramID(ctx, telegramID) },
		&models.User{TelegramID: telegramID, DisplayName: displayName, AvatarURL: avatarURL},
	)
}

func (s *userService) GetOrCreateByGoogle(ctx context.Context, googleSub, displayName, avatarURL string) (*models.User, error) {
	return s.getOrCreate(ctx,
		func(ctx context.Context) (*models.User, error) { return s.repo.GetByGoogleSub(ctx, googleSub) },
		&models.User{GoogleSub: googleSub, DisplayName: displayName, AvatarURL: avatarURL},
	)
}

func (s *userService) getOrCreate(ctx context.Context, lookup func(context.Context) (*models.User, error), fresh *models.User) (*models.User, error) {
	user, err := lookup(ctx)
	if err == nil {
		if fresh.DisplayName != "" && (user.DisplayName != fresh.DisplayName || user.AvatarURL != fresh.AvatarURL) {
			user.DisplayName = fresh.DisplayName
			user.AvatarURL = fresh.AvatarURL
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, apperrors.NewStoreFailure("update user", err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStoreFailure("lookup user", err)
	}

	fresh.ID = uuid.New().String()
	fresh.CreatedAt = time.Now()

	err = s.repo.Create(ctx, fresh)
	if errors.Is(err, repository.ErrAlreadyExists) {
		// Lost the first-login race; the other writer's row is the user.
		return lookup(ctx)
	}
	if err != nil {
		return nil, apperrors.NewStoreFailure("create user", err)
	}
	return fresh, nil
}

func toResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}
}
