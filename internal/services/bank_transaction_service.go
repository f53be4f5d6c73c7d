package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/pagination"
)

// bankTransactionService handles soft deletion and listing of statement rows.
type bankTransactionService struct {
	db *gorm.DB
}

// NewBankTransactionService creates a new BankTransactionServicer.
func NewBankTransactionService(db *gorm.DB) BankTransactionServicer {
	return &bankTransactionService{db: db}
}

// List returns a page of an account's transactions, newest first
func (s *bankTransactionService) List(ctx context.Context, scope Scope, filter BankTransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error) {
	db := s.db.WithContext(ctx)
	if _, err := findBankAccount(db, scope, filter.BankAccountID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := db.Model(&models.BankTransaction{}).
		Scopes(models.IncludeDeleted(filter.IncludeDeleted)).
		Where("bank_account_id = ?", filter.BankAccountID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.BankTransaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(newestFirst).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txns, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Delete soft-deletes a transaction that has no active classifications
func (s *bankTransactionService) Delete(ctx context.Context, scope Scope, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := lockBankTransaction(tx, scope, id)
		if err != nil {
			return err
		}
		if txn.IsDeleted {
			return apperrors.ErrTransactionNotFound
		}

		var active int64
		if err := tx.Model(&models.Classification{}).
			Where("bank_transaction_id = ? AND is_active_classification = ?", txn.ID, true).
			Count(&active).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if active > 0 {
			return apperrors.ErrTransactionClassified
		}

		if err := tx.Model(txn).UpdateColumns(map[string]any{
			"is_deleted": true,
			"deleted_at": time.Now(),
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// Restore brings a soft-deleted transaction back unless an identical live
// row has been ingested since.
func (s *bankTransactionService) Restore(ctx context.Context, scope Scope, id string) (*models.BankTransaction, error) {
	var restored *models.BankTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := lockBankTransaction(tx, scope, id)
		if err != nil {
			return err
		}
		if !txn.IsDeleted {
			restored = txn
			return nil
		}

		var live int64
		if err := tx.Model(&models.BankTransaction{}).Scopes(models.NotDeleted).
			Where("bank_account_id = ? AND dedupe_key = ?", txn.BankAccountID, txn.DedupeKey).
			Count(&live).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if live > 0 {
			return apperrors.ErrDuplicateTransaction
		}

		if err := tx.Model(txn).UpdateColumns(map[string]any{
			"is_deleted": false,
			"deleted_at": nil,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		txn.IsDeleted = false
		txn.DeletedAt = nil
		restored = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// lockBankTransaction loads a transaction in scope, deleted or not, and
// holds a row lock on it for the rest of tx.
func lockBankTransaction(tx *gorm.DB, scope Scope, id string) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(scope.bankAccountFilter("bank_account_id")).
		First(&txn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}
