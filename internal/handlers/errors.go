package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrReputationCheckFailed):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err with its mapped status. Server-side failures are logged
// and hidden behind fallback.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)

	msg := err.Error()
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrReputationCheckFailed):
		msg = apperrors.ErrReputationCheckFailed.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		msg = "Invalid credentials"
	case status >= http.StatusInternalServerError:
		if errors.As(err, &appErr) {
			msg = appErr.Message
		} else {
			msg = fallback
		}
		logger.Error(fallback, slog.String("error", err.Error()))
	default:
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid request", slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
}

// requireUserID reads the authenticated caller. It writes a 401 and returns false when absent.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}
