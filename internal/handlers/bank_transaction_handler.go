package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/pagination"
	"igen/internal/services"
)

// BankTransactionHandler handles bank transaction maintenance.
type BankTransactionHandler struct {
	bankTransactionService services.BankTransactionServicer
	auditService           services.AuditServicer
}

// NewBankTransactionHandler creates a new BankTransactionHandler.
func NewBankTransactionHandler(bankTransactionService services.BankTransactionServicer, auditService services.AuditServicer) *BankTransactionHandler {
	return &BankTransactionHandler{bankTransactionService: bankTransactionService, auditService: auditService}
}

type bankTransactionQuery struct {
	BankAccountID  string `form:"bank_account_id" binding:"required"`
	IncludeDeleted bool   `form:"include_deleted"`
	pagination.PageRequest
}

// ListBankTransactions lists the transactions of a bank account
// @Summary     List bank transactions
// @Tags        bank-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       bank_account_id query string true  "Bank account ID"
// @Param       include_deleted query bool   false "Include soft-deleted rows"
// @Param       page            query int    false "Page number"
// @Param       page_size       query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.BankTransaction]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /bank-transactions [get]
func (h *BankTransactionHandler) ListBankTransactions(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q bankTransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.bankTransactionService.List(c.Request.Context(), scope,
		services.BankTransactionFilter{BankAccountID: q.BankAccountID, IncludeDeleted: q.IncludeDeleted},
		q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteBankTransaction soft-deletes a bank transaction
// @Summary     Delete a bank transaction
// @Description Soft-delete a transaction that has no active classifications
// @Tags        bank-transactions
// @Security    BearerAuth
// @Param       id path string true "Bank transaction ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Transaction is classified"
// @Router      /bank-transactions/{id} [delete]
func (h *BankTransactionHandler) DeleteBankTransaction(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.bankTransactionService.Delete(c.Request.Context(), scope, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, "DELETE_BANK_TRANSACTION", "bank_transaction", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// RestoreBankTransaction restores a soft-deleted bank transaction
// @Summary     Restore a bank transaction
// @Tags        bank-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank transaction ID"
// @Success     200 {object} models.BankTransaction
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Duplicate live transaction"
// @Router      /bank-transactions/{id}/restore [post]
func (h *BankTransactionHandler) RestoreBankTransaction(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.bankTransactionService.Restore(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, "RESTORE_BANK_TRANSACTION", "bank_transaction", txn.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, txn)
}
