package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/user/repository/memory"
)

func TestGetOrCreateByTelegramCreatesOnce(t *testing.T) {
	svc := NewUserService(memory.NewRepository())
	ctx := context.Background()

	first, err := svc.GetOrCreateByTelegram(ctx, "42", "Alice", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := svc.GetOrCreateByTelegram(ctx, "42", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same identity resolves to the same account")
}

func TestGetOrCreateRefreshesProfile(t *testing.T) {
	svc := NewUserService(memory.NewRepository())
	ctx := context.Background()

	first, err := svc.GetOrCreateByTelegram(ctx, "42", "Alice", "")
	require.NoError(t, err)

	renamed, err := svc.GetOrCreateByTelegram(ctx, "42", "Alice B.", "https://cdn/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, first.ID, renamed.ID)
	assert.Equal(t, "Alice B.", renamed.DisplayName)
	assert.Equal(t, "https://cdn/avatar.png", renamed.AvatarURL)
}

func TestTelegramAndGoogleIdentitiesAreSeparate(t *testing.T) {
	svc := NewUserService(memory.NewRepository())
	ctx := context.Background()

	tgUser, err := svc.GetOrCreateByTelegram(ctx, "42", "Alice", "")
	require.NoError(t, err)
	googleUser, err := svc.GetOrCreateByGoogle(ctx, "sub-42", "Alice", "")
	require.NoError(t, err)

	assert.NotEqual(t, tgUser.ID, googleUser.ID)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(memory.NewRepository())

	_, err := svc.GetUser(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUserNotFound, apperrors.CodeOf(err))
}

func TestConcurrentFirstLoginResolvesToOneAccount(t *testing.T) {
	svc := NewUserService(memory.NewRepository())
	ctx := context.Background()

	const logins = 8
	type result struct {
		id  string
		err error
	}
	results := make(chan result, logins)
	for i := 0; i < logins; i++ {
		go func() {
			user, err := svc.GetOrCreateByTelegram(ctx, "42", "Alice", "")
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{id: user.ID}
		}()
	}

	ids := make(map[string]bool)
	for i := 0; i < logins; i++ {
		r := <-results
		require.NoError(t, r.err)
		ids[r.id] = true
	}
	assert.Len(t, ids, 1, "all racers must land on the same account")
}
