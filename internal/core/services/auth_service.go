package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/platform/config"
	"github.com/SscSPs/wallet_app/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenService issues the JWTs used as bearer tokens and session cookies.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token")
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}
