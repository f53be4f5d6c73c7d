package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/pagination"
	"igen/internal/services"
)

// BankAccountHandler handles bank account requests.
type BankAccountHandler struct {
	bankAccountService services.BankAccountServicer
	auditService       services.AuditServicer
}

// NewBankAccountHandler creates a new BankAccountHandler.
func NewBankAccountHandler(bankAccountService services.BankAccountServicer, auditService services.AuditServicer) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService, auditService: auditService}
}

// CreateBankAccountRequest represents the request payload for creating a bank account.
type CreateBankAccountRequest struct {
	CompanyID     string `json:"company_id" binding:"required,uuid"`
	AccountName   string `json:"account_name" binding:"required,min=1,max=255"`
	AccountNumber string `json:"account_number" binding:"required,min=1,max=64"`
	BankName      string `json:"bank_name" binding:"max=255"`
	IFSC          string `json:"ifsc" binding:"omitempty,alphanum,max=32"`
}

// CreateBankAccount handles the creation of a bank account
// @Summary     Create a bank account
// @Description Register a company bank account that statements can be uploaded against (super users only)
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBankAccountRequest true "Bank account details"
// @Success     201 {object} models.BankAccount "Bank account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Company not found"
// @Failure     409 {object} ErrorResponse "Duplicate account number"
// @Router      /bank-accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(scope, services.CreateBankAccountRequest{
		CompanyID:     req.CompanyID,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		IFSC:          req.IFSC,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, "CREATE_BANK_ACCOUNT", "bank_account", account.ID, c.ClientIP(),
		map[string]any{"company_id": req.CompanyID, "account_number": req.AccountNumber})

	c.JSON(http.StatusCreated, account)
}

// ListBankAccounts lists the bank accounts visible to the caller
// @Summary     List bank accounts
// @Description Paginated list of bank accounts of the caller's companies
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.BankAccount]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /bank-accounts [get]
func (h *BankAccountHandler) ListBankAccounts(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.bankAccountService.ListBankAccounts(scope, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBankAccount returns one bank account
// @Summary     Get a bank account
// @Tags        bank-accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank account ID"
// @Success     200 {object} models.BankAccount
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [get]
func (h *BankAccountHandler) GetBankAccount(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.bankAccountService.GetBankAccount(scope, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
