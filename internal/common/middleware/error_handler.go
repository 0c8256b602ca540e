package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wishmanager-backend/internal/common/errors"
	"wishmanager-backend/internal/common/logger"
)

// RequestID assigns an identifier to every request, honoring an inbound
// X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ErrorHandler converts panics and errors attached to the gin context into
// the JSON error envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error().
					Str("request_id", getRequestID(c)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", recovered).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				appErr := errors.New(errors.ErrCodeInternal, "internal server error").
					WithDetail("panic", fmt.Sprintf("%v", recovered))
				sendErrorResponse(c, appErr)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "handler error")
		}
		sendErrorResponse(c, appErr)
	}
}

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)
	statusCode := httpStatusCode(appErr)

	response := ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	}

	logError(appErr, c)
	c.AbortWithStatusJSON(statusCode, response)
}

func httpStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodePermissionDenied, errors.ErrCodePrivateWishlist:
		return http.StatusForbidden
	case errors.ErrCodeUserNotFound, errors.ErrCodeWishNotFound,
		errors.ErrCodeWishlistNotFound, errors.ErrCodeNotMember:
		return http.StatusNotFound
	case errors.ErrCodeInvalidTransition, errors.ErrCodeAlreadyBooked,
		errors.ErrCodeAlreadyMember, errors.ErrCodeOwnerCannotLeave:
		return http.StatusConflict
	case errors.ErrCodeStoreFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, c *gin.Context) {
	event := logger.Info()
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.Code == errors.ErrCodePermissionDenied || appErr.Code == errors.ErrCodeUnauthorized:
		event = logger.Warn()
	}

	event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message).
		Str("actor", GetActorID(c)).
		Err(appErr.Cause).
		Msg("Request failed")
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
