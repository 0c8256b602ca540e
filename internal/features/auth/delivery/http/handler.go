package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/features/auth/models"
	"wishmanager-backend/internal/features/auth/service"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes mounts the unauthenticated login endpoints.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/telegram", h.telegram)
		auth.POST("/google", h.google)
	}
}

// @Summary Log in with Telegram
// @Description Verifies Mini App init data and returns a bearer token. First login creates the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.TelegramAuthRequest true "Raw init data"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} middleware.ErrorResponse "Init data rejected"
// @Router /auth/telegram [post]
func (h *AuthHandler) telegram(c *gin.Context) {
	var input models.TelegramAuthRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid auth payload"))
		return
	}

	token, err := h.service.AuthenticateTelegram(c.Request.Context(), input.InitData)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// @Summary Log in with Google
// @Description Issues a bearer token for a verified Google subject. First login creates the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.GoogleAuthRequest true "Verified Google profile"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Router /auth/google [post]
func (h *AuthHandler) google(c *gin.Context) {
	var input models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid auth payload"))
		return
	}

	token, err := h.service.AuthenticateGoogle(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, token)
}
