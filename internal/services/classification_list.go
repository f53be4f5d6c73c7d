package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "igen/internal/errors"
	"igen/internal/models"
)

const activeClassificationExists = "EXISTS (SELECT 1 FROM classifications c " +
	"WHERE c.bank_transaction_id = bank_transactions.id AND c.is_active_classification = ?)"

// List returns a window of an account's live transactions with their
// classification status
func (s *classificationService) List(ctx context.Context, scope Scope, filter LedgerFilter) (*LedgerPage, error) {
	if filter.UnclassifiedOnly && filter.ClassifiedOnly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unclassified_only and classified_only cannot both be set")
	}

	db := s.db.WithContext(ctx)
	if _, err := findBankAccount(db, scope, filter.BankAccountID); err != nil {
		return nil, err
	}
	filter.Window.Defaults()

	base := applyLedgerFilters(
		db.Model(&models.BankTransaction{}).Scopes(models.NotDeleted).Where("bank_account_id = ?", filter.BankAccountID),
		filter,
	)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.BankTransaction
	if err := base.Scopes(filter.Window.Apply).Order(newestFirst).Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	children, err := activeChildren(db, txns, filter.IncludeChildren || filter.FlattenSplits)
	if err != nil {
		return nil, err
	}

	results := make([]LedgerRow, 0, len(txns))
	for i := range txns {
		txn := &txns[i]
		group := children[txn.ID]
		row := newLedgerRow(txn, group)

		if filter.FlattenSplits && len(group) > 1 {
			for j := range group {
				child := newClassificationView(&group[j])
				flat := row
				flat.Status = "Split Child"
				flat.IsSplitChild = true
				flat.Child = &child
				results = append(results, flat)
			}
			continue
		}

		if filter.IncludeChildren {
			row.Children = make([]ClassificationView, len(group))
			for j := range group {
				row.Children[j] = newClassificationView(&group[j])
			}
		}
		results = append(results, row)
	}

	return &LedgerPage{
		Results: results,
		Count:   count,
		Limit:   filter.Window.Limit,
		Offset:  filter.Window.Offset,
	}, nil
}

func applyLedgerFilters(q *gorm.DB, f LedgerFilter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", *f.EndDate)
	}
	if f.MinAmount != nil {
		q = q.Where("ABS(signed_amount) >= CAST(? AS NUMERIC)", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		q = q.Where("ABS(signed_amount) <= CAST(? AS NUMERIC)", f.MaxAmount.String())
	}
	switch f.Direction {
	case "credit":
		q = q.Where("signed_amount >= 0")
	case "debit":
		q = q.Where("signed_amount < 0")
	}
	if f.UnclassifiedOnly {
		q = q.Where("NOT "+activeClassificationExists, true)
	}
	if f.ClassifiedOnly {
		q = q.Where(activeClassificationExists, true)
	}
	return q
}

// activeChildren loads the active classifications of txns grouped by bank
// transaction. Reference names are only resolved when withNames is set.
func activeChildren(db *gorm.DB, txns []models.BankTransaction, withNames bool) (map[string][]models.Classification, error) {
	groups := make(map[string][]models.Classification, len(txns))
	if len(txns) == 0 {
		return groups, nil
	}
	ids := make([]string, len(txns))
	for i := range txns {
		ids[i] = txns[i].ID
	}

	q := db
	if withNames {
		q = withReferenceNames(db)
	}
	var rows []models.Classification
	if err := q.Where("bank_transaction_id IN ? AND is_active_classification = ?", ids, true).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, c := range rows {
		groups[c.BankTransactionID] = append(groups[c.BankTransactionID], c)
	}
	return groups, nil
}

func newLedgerRow(txn *models.BankTransaction, active []models.Classification) LedgerRow {
	row := LedgerRow{
		ID:              txn.ID,
		TransactionDate: txn.TransactionDate,
		Narration:       txn.Narration,
		CreditAmount:    txn.CreditAmount,
		DebitAmount:     txn.DebitAmount,
		BalanceAmount:   txn.BalanceAmount,
		SignedAmount:    txn.SignedAmount,
		UTRNumber:       txn.UTRNumber,
		ActiveCount:     len(active),
	}

	var last *time.Time
	for i := range active {
		if last == nil || active[i].CreatedAt.After(*last) {
			last = &active[i].CreatedAt
		}
	}
	row.LastClassifiedAt = last

	switch len(active) {
	case 0:
		row.Status = "Unclassified"
	case 1:
		row.Status = "Classified"
	default:
		row.Status = fmt.Sprintf("Split (%d)", len(active))
	}
	return row
}
