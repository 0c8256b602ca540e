package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/auth/models"
	"wishmanager-backend/internal/features/user/repository/memory"
	userservice "wishmanager-backend/internal/features/user/service"
)

const testSecret = "test-secret"

func newService() AuthService {
	users := userservice.NewUserService(memory.NewRepository())
	return NewAuthService(users, "123456:bot-token", testSecret, time.Hour)
}

func TestGoogleLoginIssuesTokenForUser(t *testing.T) {
	svc := newService()

	resp, err := svc.AuthenticateGoogle(context.Background(), &models.GoogleAuthRequest{
		Sub:         "google-sub-1",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Alice", resp.User.DisplayName)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, resp.User.ID, claims.Subject, "token subject is the user id")
}

func TestGoogleLoginIsIdempotentPerSubject(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.AuthenticateGoogle(ctx, &models.GoogleAuthRequest{Sub: "google-sub-1"})
	require.NoError(t, err)
	second, err := svc.AuthenticateGoogle(ctx, &models.GoogleAuthRequest{Sub: "google-sub-1"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID, "same subject resolves to the same account")
}

func TestTelegramLoginRejectsForgedInitData(t *testing.T) {
	svc := newService()

	_, err := svc.AuthenticateTelegram(context.Background(),
		"query_id=x&user=%7B%22id%22%3A1%7D&auth_date=1&hash=deadbeef")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))
}
