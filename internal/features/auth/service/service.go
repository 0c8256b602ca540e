package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/auth/models"
	usermodels "wishmanager-backend/internal/features/user/models"
)

// initDataTTL bounds how old accepted init data may be.
const initDataTTL = 24 * time.Hour

// Users provisions accounts for verified external identities.
type Users interface {
	GetOrCreateByTelegram(ctx context.Context, telegramID, displayName, avatarURL string) (*usermodels.User, error)
	GetOrCreateByGoogle(ctx context.Context, googleSub, displayName, avatarURL string) (*usermodels.User, error)
}

type AuthService interface {
	// AuthenticateTelegram verifies Mini App init data against the bot
	// token and issues a session token for the resolved user.
	AuthenticateTelegram(ctx context.Context, rawInitData string) (*models.TokenResponse, error)
	// AuthenticateGoogle issues a session token for an already-verified
	// Google subject.
	AuthenticateGoogle(ctx context.Context, req *models.GoogleAuthRequest) (*models.TokenResponse, error)
}

type authService struct {
	users     Users
	botToken  string
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users Users, botToken, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:     users,
		botToken:  botToken,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) AuthenticateTelegram(ctx context.Context, rawInitData string) (*models.TokenResponse, error) {
	if err := initdata.Validate(rawInitData, s.botToken, initDataTTL); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid telegram init data")
	}

	data, err := initdata.Parse(rawInitData)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "malformed telegram init data")
	}
	if data.User.ID == 0 {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "init data carries no user")
	}

	displayName := strings.TrimSpace(data.User.FirstName + " " + data.User.LastName)
	user, err := s.users.GetOrCreateByTelegram(ctx,
		strconv.FormatInt(data.User.ID, 10), displayName, data.User.PhotoURL)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *authService) AuthenticateGoogle(ctx context.Context, req *models.GoogleAuthRequest) (*models.TokenResponse, error) {
	user, err := s.users.GetOrCreateByGoogle(ctx, req.Sub, req.DisplayName, req.AvatarURL)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *authService) issueToken(user *usermodels.User) (*models.TokenResponse, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to sign token")
	}

	return &models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: &usermodels.UserResponse{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			AvatarURL:   user.AvatarURL,
			CreatedAt:   user.CreatedAt,
		},
	}, nil
}
