package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// googleOAuthHandler handles Google sign-in. Sessions are issued the same way as password login.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	sessions           *userHandler
}

func newGoogleOAuthHandler(g portssvc.GoogleOAuthHandlerSvcFacade, us portssvc.UserSvcFacade, sessions *userHandler) *googleOAuthHandler {
	return &googleOAuthHandler{googleOAuthService: g, userService: us, sessions: sessions}
}

// loginURL godoc
// @Summary Google consent URL
// @Description Returns the Google consent URL and the state value the client must keep.
// @Tags oauth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/oauth/google/url [get]
func (h *googleOAuthHandler) loginURL(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		respondWithError(c, err, "Failed to start Google sign-in")
		return
	}
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(ctx, state),
		State: state,
	})
}

// exchangeCode godoc
// @Summary Exchange a Google authorization code for a session
// @Description Exchanges the code, verifies the ID token, finds or creates the user and issues a JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /users/oauth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "invalid_grant") || strings.Contains(lower, "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code.")
		}
		c.AbortWithStatusJSON(appErr.Code, appErr)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.ErrorContext(ctx, "ID token not found in Google's token response")
		appErr := apperrors.NewInternalServerError("Failed to retrieve ID token from Google.")
		c.AbortWithStatusJSON(appErr.Code, appErr)
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.WarnContext(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || payload.Subject == "" {
		logger.ErrorContext(ctx, "Essential claims missing from Google ID token")
		appErr := apperrors.NewInternalServerError("Essential user information missing from Google token.")
		c.AbortWithStatusJSON(appErr.Code, appErr)
		return
	}

	user, err := h.userService.CreateOAuthUser(ctx, name, email, domain.ProviderGoogle, payload.Subject, emailVerified)
	if err != nil {
		respondWithError(c, err, "Failed to process user authentication")
		return
	}
	h.sessions.issueSession(c, user)
}
