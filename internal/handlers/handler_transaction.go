package handlers

import (
	"net/http"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler exposes the transaction engine.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	tracker            middleware.EventTracker
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, tracker middleware.EventTracker) *transactionHandler {
	return &transactionHandler{transactionService: ts, tracker: tracker}
}

// deposit godoc
// @Summary Deposit into my account
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.AmountRequest true "Amount"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No account"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/deposit [post]
func (h *transactionHandler) deposit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, err := h.transactionService.Deposit(c.Request.Context(), userID, req.Amount)
	h.respond(c, txn, err, "Failed to deposit")
}

// withdraw godoc
// @Summary Withdraw from my account
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.AmountRequest true "Amount"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient balance"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No account"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/withdraw [post]
func (h *transactionHandler) withdraw(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, err := h.transactionService.Withdraw(c.Request.Context(), userID, req.Amount)
	h.respond(c, txn, err, "Failed to withdraw")
}

// transfer godoc
// @Summary Transfer to another account
// @Description Moves amount from the caller's account to the account with the given number.
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.TransferRequest true "Amount and receiver account number"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, insufficient balance or own account"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Sender or receiver account not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, err := h.transactionService.Transfer(c.Request.Context(), userID, req.Amount, req.Receiver)
	h.respond(c, txn, err, "Failed to transfer")
}

func (h *transactionHandler) respond(c *gin.Context, txn *domain.Transaction, err error, fallback string) {
	if err != nil {
		respondWithError(c, err, fallback)
		return
	}
	middleware.PosthogEvent(c, h.tracker, "wallet_transaction_completed", map[string]any{
		"type":   string(txn.Type),
		"amount": txn.Amount.String(),
	})
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List my transactions
// @Description Returns the caller's ledger in insertion order. Without a limit every entry is returned.
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size (1-100)"
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No account"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	txns, next, err := h.transactionService.GetTransactionsPage(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, next))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Only entries sent or received by the caller's account are visible.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionForUser(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
