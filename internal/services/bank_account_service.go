package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/pagination"
)

// bankAccountService handles bank account lookups.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateBankAccount registers a bank account for a company in scope
func (s *bankAccountService) CreateBankAccount(scope Scope, req CreateBankAccountRequest) (*models.BankAccount, error) {
	number := strings.TrimSpace(req.AccountNumber)
	if req.CompanyID == "" || number == "" || strings.TrimSpace(req.AccountName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "company_id, account_name and account_number are required")
	}
	if !scope.AllowsCompany(req.CompanyID) {
		return nil, apperrors.ErrCompanyNotFound
	}
	if err := s.db.First(&models.Company{}, "id = ?", req.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	if err := s.db.Model(&models.BankAccount{}).Where("account_number = ?", number).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBankAccount
	}

	account := &models.BankAccount{
		CompanyID:     req.CompanyID,
		AccountName:   strings.TrimSpace(req.AccountName),
		AccountNumber: number,
		BankName:      strings.TrimSpace(req.BankName),
		IFSC:          strings.ToUpper(strings.TrimSpace(req.IFSC)),
		IsActive:      true,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// ListBankAccounts returns the bank accounts visible to the scope
func (s *bankAccountService) ListBankAccounts(scope Scope, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error) {
	page.Defaults()

	base := s.db.Model(&models.BankAccount{}).Scopes(scope.companyFilter("company_id"))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.BankAccount
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Company").
		Order("account_name ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBankAccount returns a bank account if the scope can see it
func (s *bankAccountService) GetBankAccount(scope Scope, id string) (*models.BankAccount, error) {
	return findBankAccount(s.db, scope, id)
}

// findBankAccount loads a bank account, hiding accounts outside the scope.
func findBankAccount(db *gorm.DB, scope Scope, id string) (*models.BankAccount, error) {
	if id == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank_account_id is required")
	}
	var account models.BankAccount
	err := db.Scopes(scope.companyFilter("company_id")).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}
