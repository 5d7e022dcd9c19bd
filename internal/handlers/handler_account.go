package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the caller's own account.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// getAccount godoc
// @Summary Get my account
// @Description Returns the caller's account. The account is null when none has been opened yet.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.GetAccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.FindByOwner(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusOK, dto.GetAccountResponse{Message: "No account found for user"})
			return
		}
		respondWithError(c, err, "Failed to retrieve account")
		return
	}

	res := dto.ToAccountResponse(account)
	c.JSON(http.StatusOK, dto.GetAccountResponse{Message: "Account retrieved", Account: &res})
}

// createAccount godoc
// @Summary Open my account
// @Description Opens the single account the caller may own.
// @Tags accounts
// @Produce json
// @Success 201 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account opened", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Close my account
// @Description Deletes the caller's account. The balance must be zero.
// @Tags accounts
// @Success 204
// @Failure 400 {object} ErrorResponse "Balance is not zero"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondWithError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}
