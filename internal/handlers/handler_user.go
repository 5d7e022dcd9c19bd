package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/SscSPs/wallet_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// userHandler serves registration and password login.
type userHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

func newUserHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *userHandler {
	return &userHandler{userService: us, tokenService: ts, cfg: cfg}
}

// register godoc
// @Summary Register a new user
// @Description Creates a user after the reputation check passes.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Registration details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Reputation check failed"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /users [post]
func (h *userHandler) register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in
// @Description Authenticates with email and password. The token is returned and also set as a session cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/login [post]
func (h *userHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err, "Failed to log in")
		return
	}
	h.issueSession(c, user)
}

// issueSession mints a token for user, sets the session cookie and writes the login response.
func (h *userHandler) issueSession(c *gin.Context, user *domain.User) {
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondWithError(c, err, "Failed to generate token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", h.cfg.IsProduction, true)

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Session issued", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
