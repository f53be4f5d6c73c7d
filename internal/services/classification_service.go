package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "igen/internal/errors"
	"igen/internal/logger"
	"igen/internal/models"
	"igen/internal/statement"
	"igen/internal/uuid"
)

// classificationService maintains the classification ledger. Every mutating
// call runs in one transaction holding a row lock on the bank transaction,
// and checks before commit that the active rows still add up to the
// transaction's absolute amount.
type classificationService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewClassificationService creates a new ClassificationServicer.
func NewClassificationService(db *gorm.DB) ClassificationServicer {
	return &classificationService{db: db, log: logger.Named("tx_classify")}
}

// ledgerTxn is a locked, live bank transaction and the company that owns it.
type ledgerTxn struct {
	*models.BankTransaction
	CompanyID string
}

// Classify books a whole unclassified transaction to one row
func (s *classificationService) Classify(ctx context.Context, scope Scope, req ClassifyRequest) (*models.Classification, error) {
	amount := statement.Round2(req.Amount)

	var created models.Classification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := lockLedgerTxn(tx, scope, req.BankTransactionID)
		if err != nil {
			return err
		}

		active, err := activeClassifications(tx, txn.ID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return apperrors.WithMessage(apperrors.ErrAlreadyClassified,
				"This transaction is already classified or split. Only unclassified transactions can be classified.")
		}

		expected := txn.AbsAmount()
		if !amount.IsPositive() || !amount.Equal(expected) {
			return apperrors.WithMessage(apperrors.ErrAmountMismatch,
				fmt.Sprintf("Amount must equal transaction amount %s.", expected.StringFixed(2)))
		}
		if err := requireReferences(tx, txn.CompanyID, req.Metadata); err != nil {
			return err
		}

		opID := uuid.New()
		if _, err := supersede(tx, opID, "bank_transaction_id = ?", txn.ID); err != nil {
			return err
		}

		created = newClassification(txn.BankTransaction, req.Allocation, models.OperationClassify, opID, nil,
			txn.TransactionDate, req.Remarks)
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return verifyConservation(tx, txn.BankTransaction)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("transaction classified", "bank_transaction_id", req.BankTransactionID,
		"classification_id", created.ID, "operation_id", created.OperationID)
	return &created, nil
}

// Split divides a transaction that is not already split across several rows
func (s *classificationService) Split(ctx context.Context, scope Scope, req SplitRequest) ([]models.Classification, error) {
	if len(req.Rows) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one split row is required.")
	}

	var created []models.Classification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := lockLedgerTxn(tx, scope, req.BankTransactionID)
		if err != nil {
			return err
		}

		active, err := activeClassifications(tx, txn.ID)
		if err != nil {
			return err
		}
		if len(active) > 1 {
			return apperrors.WithMessage(apperrors.ErrAlreadySplit,
				"This transaction is already split and cannot be split again.")
		}

		total, err := splitTotal(req.Rows)
		if err != nil {
			return err
		}
		expected := txn.AbsAmount()
		if !total.Equal(expected) {
			return apperrors.WithMessage(apperrors.ErrSplitTotalMismatch,
				fmt.Sprintf("Split total %s must equal transaction amount %s.", total.StringFixed(2), expected.StringFixed(2)))
		}
		for _, row := range req.Rows {
			if err := requireReferences(tx, txn.CompanyID, row.Metadata); err != nil {
				return err
			}
		}

		opID := uuid.New()
		if _, err := supersede(tx, opID, "bank_transaction_id = ?", txn.ID); err != nil {
			return err
		}

		created = make([]models.Classification, len(req.Rows))
		for i, row := range req.Rows {
			remarks := row.Remarks
			if remarks == "" {
				remarks = fmt.Sprintf("Split part %d/%d", i+1, len(req.Rows))
			}
			created[i] = newClassification(txn.BankTransaction, row, models.OperationSplit, opID, nil,
				txn.TransactionDate, remarks)
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return verifyConservation(tx, txn.BankTransaction)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("transaction split", "bank_transaction_id", req.BankTransactionID,
		"children", len(created), "operation_id", created[0].OperationID)
	return created, nil
}

// Resplit replaces one active row with several rows of the same total.
// Sibling rows are left untouched.
func (s *classificationService) Resplit(ctx context.Context, scope Scope, req ResplitRequest) ([]models.Classification, error) {
	if len(req.Rows) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one split row is required.")
	}

	var created []models.Classification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, txn, err := lockTarget(tx, scope, req.ClassificationID)
		if err != nil {
			return err
		}

		total, err := splitTotal(req.Rows)
		if err != nil {
			return err
		}
		expected := statement.Round2(target.Amount)
		if !total.Equal(expected) {
			return apperrors.WithMessage(apperrors.ErrSplitTotalMismatch,
				fmt.Sprintf("Split total %s must equal selected child's amount %s.", total.StringFixed(2), expected.StringFixed(2)))
		}
		for _, row := range req.Rows {
			if err := requireReferences(tx, txn.CompanyID, row.Metadata); err != nil {
				return err
			}
		}

		opID := uuid.New()
		if err := supersedeOne(tx, opID, target.ID); err != nil {
			return err
		}

		created = make([]models.Classification, len(req.Rows))
		for i, row := range req.Rows {
			remarks := row.Remarks
			if remarks == "" {
				remarks = fmt.Sprintf("Re-split part %d/%d", i+1, len(req.Rows))
			}
			created[i] = newClassification(txn.BankTransaction, row, models.OperationResplit, opID, &target.ID,
				target.ValueDate, remarks)
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return verifyConservation(tx, txn.BankTransaction)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("classification re-split", "classification_id", req.ClassificationID,
		"children", len(created), "operation_id", created[0].OperationID)
	return created, nil
}

// Reclassify replaces the metadata of one active row. The amount is carried
// over unchanged.
func (s *classificationService) Reclassify(ctx context.Context, scope Scope, req ReclassifyRequest) (*models.Classification, error) {
	var created models.Classification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, txn, err := lockTarget(tx, scope, req.ClassificationID)
		if err != nil {
			return err
		}
		if err := requireReferences(tx, txn.CompanyID, req.Metadata); err != nil {
			return err
		}

		opID := uuid.New()
		if err := supersedeOne(tx, opID, target.ID); err != nil {
			return err
		}

		alloc := Allocation{Metadata: req.Metadata, Amount: target.Amount}
		created = newClassification(txn.BankTransaction, alloc, models.OperationReclassify, opID, &target.ID,
			target.ValueDate, req.Remarks)
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return verifyConservation(tx, txn.BankTransaction)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("classification reclassified", "classification_id", req.ClassificationID,
		"replacement_id", created.ID, "operation_id", created.OperationID)
	return &created, nil
}

// History returns every classification of a transaction, oldest first
func (s *classificationService) History(ctx context.Context, scope Scope, bankTransactionID string) ([]ClassificationView, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.BankTransaction{}).
		Scopes(scope.bankAccountFilter("bank_account_id")).
		Where("id = ?", bankTransactionID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrTransactionNotFound
	}

	var rows []models.Classification
	if err := withReferenceNames(db).
		Where("bank_transaction_id = ?", bankTransactionID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]ClassificationView, len(rows))
	for i := range rows {
		views[i] = newClassificationView(&rows[i])
	}
	return views, nil
}

// lockLedgerTxn locks a live bank transaction in scope and resolves its company.
func lockLedgerTxn(tx *gorm.DB, scope Scope, id string) (*ledgerTxn, error) {
	if id == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank_transaction_id is required")
	}
	txn, err := lockBankTransaction(tx, scope, id)
	if err != nil {
		return nil, err
	}
	if txn.IsDeleted {
		return nil, apperrors.ErrTransactionNotFound
	}

	var account models.BankAccount
	if err := tx.Select("id", "company_id").First(&account, "id = ?", txn.BankAccountID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ledgerTxn{BankTransaction: txn, CompanyID: account.CompanyID}, nil
}

// lockTarget locks the bank transaction that owns a classification, then
// re-reads the classification under the lock and requires it to be active.
func lockTarget(tx *gorm.DB, scope Scope, classificationID string) (*models.Classification, *ledgerTxn, error) {
	if classificationID == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "classification_id is required")
	}

	var target models.Classification
	if err := tx.Select("id", "bank_transaction_id").First(&target, "id = ?", classificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrClassificationNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txn, err := lockLedgerTxn(tx, scope, target.BankTransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return nil, nil, apperrors.ErrClassificationNotFound
		}
		return nil, nil, err
	}

	if err := tx.First(&target, "id = ?", classificationID).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !target.IsActiveClassification {
		return nil, nil, apperrors.WithMessage(apperrors.ErrNotActive, "Selected classification is not active.")
	}
	return &target, txn, nil
}

func activeClassifications(tx *gorm.DB, bankTransactionID string) ([]models.Classification, error) {
	var rows []models.Classification
	if err := tx.Where("bank_transaction_id = ? AND is_active_classification = ?", bankTransactionID, true).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// splitTotal rounds and sums split rows, rejecting non-positive amounts.
func splitTotal(rows []Allocation) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, row := range rows {
		amount := statement.Round2(row.Amount)
		if !amount.IsPositive() {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidSplitAmount,
				"Each split amount must be greater than 0.")
		}
		total = total.Add(amount)
	}
	return total, nil
}

// supersede marks the active rows matching query as superseded by opID.
// Rows that are already inactive are never touched.
func supersede(tx *gorm.DB, opID string, query string, args ...any) (int64, error) {
	now := time.Now()
	res := tx.Model(&models.Classification{}).
		Where(query, args...).
		Where("is_active_classification = ?", true).
		UpdateColumns(map[string]any{
			"is_active_classification":   false,
			"superseded_at":              now,
			"superseded_by_operation_id": opID,
		})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

// supersedeOne supersedes a single row and fails if it was no longer active.
func supersedeOne(tx *gorm.DB, opID, classificationID string) error {
	n, err := supersede(tx, opID, "id = ?", classificationID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.WithMessage(apperrors.ErrNotActive, "Selected classification is not active.")
	}
	return nil
}

// requireReferences checks that every referenced row exists and belongs to companyID.
func requireReferences(tx *gorm.DB, companyID string, m Metadata) error {
	type ref struct {
		model any
		id    string
		field string
	}
	refs := []ref{
		{&models.TransactionType{}, m.TransactionTypeID, "transaction_type_id"},
		{&models.CostCentre{}, m.CostCentreID, "cost_centre_id"},
		{&models.Entity{}, m.EntityID, "entity_id"},
	}
	if m.AssetID != nil && *m.AssetID != "" {
		refs = append(refs, ref{&models.Asset{}, *m.AssetID, "asset_id"})
	}
	if m.ContractID != nil && *m.ContractID != "" {
		refs = append(refs, ref{&models.Contract{}, *m.ContractID, "contract_id"})
	}

	for _, r := range refs {
		if r.id == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, r.field+" is required")
		}
		var count int64
		if err := tx.Model(r.model).Where("id = ? AND company_id = ?", r.id, companyID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidReference,
				r.field+" does not exist for this company")
		}
	}
	return nil
}

// verifyConservation re-reads the active rows and fails the operation unless
// they add up to the transaction's absolute amount.
func verifyConservation(tx *gorm.DB, txn *models.BankTransaction) error {
	active, err := activeClassifications(tx, txn.ID)
	if err != nil {
		return err
	}
	sum := decimal.Zero
	for _, c := range active {
		sum = sum.Add(c.Amount)
	}
	if !sum.Equal(txn.AbsAmount()) {
		logger.Named("tx_classify").Errorw("ledger conservation check failed",
			"bank_transaction_id", txn.ID,
			"active_sum", sum.StringFixed(2),
			"expected", txn.AbsAmount().StringFixed(2),
		)
		return apperrors.ErrLedgerInvariantViolation
	}
	return nil
}

func newClassification(
	txn *models.BankTransaction,
	alloc Allocation,
	op models.LedgerOperation,
	opID string,
	parentID *string,
	defaultValueDate time.Time,
	remarks string,
) models.Classification {
	valueDate := defaultValueDate
	if alloc.ValueDate != nil && !alloc.ValueDate.IsZero() {
		valueDate = *alloc.ValueDate
	}
	return models.Classification{
		BankTransactionID:      txn.ID,
		TransactionTypeID:      alloc.TransactionTypeID,
		CostCentreID:           alloc.CostCentreID,
		EntityID:               alloc.EntityID,
		AssetID:                optionalID(alloc.AssetID),
		ContractID:             optionalID(alloc.ContractID),
		Amount:                 statement.Round2(alloc.Amount),
		ValueDate:              valueDate,
		Remarks:                remarks,
		IsActiveClassification: true,
		Operation:              op,
		OperationID:            opID,
		ParentClassificationID: parentID,
	}
}

func optionalID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

// withReferenceNames preloads the rows a classification view names.
func withReferenceNames(db *gorm.DB) *gorm.DB {
	return db.Preload("TransactionType").
		Preload("CostCentre").
		Preload("Entity").
		Preload("Asset").
		Preload("Contract")
}

func newClassificationView(c *models.Classification) ClassificationView {
	v := ClassificationView{
		ClassificationID:        c.ID,
		BankTransactionID:       c.BankTransactionID,
		Amount:                  statement.Round2(c.Amount).StringFixed(2),
		ValueDate:               c.ValueDate,
		Remarks:                 c.Remarks,
		IsActive:                c.IsActiveClassification,
		Operation:               c.Operation,
		OperationID:             c.OperationID,
		ParentClassificationID:  c.ParentClassificationID,
		SupersededAt:            c.SupersededAt,
		SupersededByOperationID: c.SupersededByOperationID,
		CreatedAt:               c.CreatedAt,
	}
	if c.TransactionType != nil {
		v.TransactionType = &c.TransactionType.Name
	}
	if c.CostCentre != nil {
		v.CostCentre = &c.CostCentre.Name
	}
	if c.Entity != nil {
		v.Entity = &c.Entity.Name
	}
	if c.Asset != nil {
		v.Asset = &c.Asset.Name
	}
	if c.Contract != nil {
		v.Contract = &c.Contract.VendorName
	}
	return v
}
