package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"wishmanager-backend/internal/features/user/models"
	"wishmanager-backend/internal/features/user/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, telegram_id, google_sub, display_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		nullable(user.TelegramID),
		nullable(user.GoogleSub),
		user.DisplayName,
		nullable(user.AvatarURL),
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrAlreadyExists
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	return r.getBy(ctx, "telegram_id = $1", telegramID)
}

func (r *userRepository) GetByGoogleSub(ctx context.Context, googleSub string) (*models.User, error) {
	return r.getBy(ctx, "google_sub = $1", googleSub)
}

func (r *userRepository) getBy(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, COALESCE(telegram_id, ''), COALESCE(google_sub, ''),
		       display_name, COALESCE(avatar_url, ''), created_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.TelegramID,
		&user.GoogleSub,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET display_name = $2, avatar_url = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, user.ID, user.DisplayName, nullable(user.AvatarURL))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
