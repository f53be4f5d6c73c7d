package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "igen/internal/errors"
	"igen/internal/logger"
	"igen/internal/models"
	"igen/internal/statement"
)

const (
	insertBatchSize    = 1000
	recentUploadsLimit = 10
	uploadDateLayout   = "2006-01-02 15:04"
)

// newestFirst orders bank transactions most recent first. source_row breaks
// ties between rows of the same batch.
const newestFirst = "transaction_date DESC, created_at DESC, source_row DESC"

// uploadService ingests statement files into bank transactions.
type uploadService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewUploadService creates a new UploadServicer.
func NewUploadService(db *gorm.DB) UploadServicer {
	return &uploadService{db: db, log: logger.Named("bank_uploads")}
}

// Ingest parses a statement file and stores its rows against a bank account.
// Row-level problems are counted on the batch and never fail the upload.
func (s *uploadService) Ingest(ctx context.Context, scope Scope, req IngestRequest) (*UploadResult, error) {
	if !strings.EqualFold(filepath.Ext(req.FileName), ".csv") {
		return nil, apperrors.ErrUnsupportedFormat
	}
	if req.Content == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required")
	}

	db := s.db.WithContext(ctx)
	account, err := findBankAccount(db, scope, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.ErrBankAccountInactive
	}

	source := req.Source
	if source == "" {
		source = models.UploadSourceWeb
	}

	batch := &models.BankUploadBatch{
		BankAccountID:              account.ID,
		FileName:                   filepath.Base(req.FileName),
		Source:                     source,
		UploadedByID:               scope.uploaderID(),
		BalanceContinuityInFile:    true,
		PreviousEndingBalanceMatch: true,
	}
	if err := db.Create(batch).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	raw, err := io.ReadAll(req.Content)
	if err != nil {
		s.failBatch(db, batch, 1)
		s.log.Warnw("statement upload could not be read", "batch_id", batch.ID, "file_name", batch.FileName, "error", err)
		return nil, apperrors.WithDetails(apperrors.ErrInvalidFile, apperrors.ErrInvalidFile.Message, map[string]any{
			"upload_batch_id": batch.ID,
		})
	}
	digest := sha256.Sum256(raw)
	batch.FileSHA256 = hex.EncodeToString(digest[:])
	if err := db.Model(batch).UpdateColumn("file_sha256", batch.FileSHA256).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	doc, err := statement.ParseBytes(raw)
	if err != nil {
		s.failBatch(db, batch, 1)

		var missing *statement.MissingColumnsError
		if errors.As(err, &missing) {
			return nil, apperrors.WithDetails(apperrors.ErrMissingColumns, missing.Error(), map[string]any{
				"detected_headers": missing.Headers,
				"upload_batch_id":  batch.ID,
			})
		}
		s.log.Warnw("statement could not be read", "batch_id", batch.ID, "file_name", batch.FileName, "error", err)
		return nil, apperrors.WithDetails(apperrors.ErrInvalidFile, apperrors.ErrInvalidFile.Message, map[string]any{
			"upload_batch_id": batch.ID,
		})
	}

	errorsCount := doc.ErrorCount()
	for _, rowErr := range doc.RowErrors {
		s.log.Debugw("skipped statement row", "batch_id", batch.ID, "row", rowErr.Row, "error", rowErr.Err)
	}

	inFile := statement.ContinuousInFile(doc.Rows)
	matchesPrevious := true
	if len(doc.Rows) > 0 {
		closing, err := previousClosing(db, account.ID)
		if err != nil {
			s.failBatch(db, batch, errorsCount+1)
			return nil, err
		}
		matchesPrevious = statement.MatchesPrevious(doc.Rows, closing)
	}

	txns := make([]models.BankTransaction, len(doc.Rows))
	for i, row := range doc.Rows {
		txns[i] = models.NewBankTransaction(account.ID, batch.ID, row)
	}

	inserted := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		if len(txns) > 0 {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&txns, insertBatchSize)
			if res.Error != nil {
				return res.Error
			}
			inserted = int(res.RowsAffected)
		}
		return tx.Model(batch).UpdateColumns(map[string]any{
			"uploaded_count":                inserted,
			"skipped_count":                 len(txns) - inserted,
			"errors_count":                  errorsCount,
			"balance_continuity_in_file":    inFile,
			"previous_ending_balance_match": matchesPrevious,
		}).Error
	})
	if err != nil {
		s.failBatch(db, batch, errorsCount+1)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	batch.UploadedCount = inserted
	batch.SkippedCount = len(txns) - inserted
	batch.ErrorsCount = errorsCount
	batch.BalanceContinuityInFile = inFile
	batch.PreviousEndingBalanceMatch = matchesPrevious

	s.log.Infow("statement ingested",
		"batch_id", batch.ID,
		"bank_account_id", account.ID,
		"source", batch.Source,
		"uploaded", batch.UploadedCount,
		"skipped", batch.SkippedCount,
		"errors", batch.ErrorsCount,
		"continuity_in_file", inFile,
		"previous_balance_match", matchesPrevious,
	)

	return newUploadResult(batch), nil
}

// failBatch records a failed upload on its batch. The batch row itself is
// kept so the attempt stays auditable.
func (s *uploadService) failBatch(db *gorm.DB, batch *models.BankUploadBatch, errorsCount int) {
	batch.ErrorsCount = errorsCount
	if err := db.Model(batch).UpdateColumn("errors_count", errorsCount).Error; err != nil {
		s.log.Errorw("failed to record batch failure", "batch_id", batch.ID, "error", err)
	}
}

func newUploadResult(batch *models.BankUploadBatch) *UploadResult {
	continuity := "Invalid"
	if batch.BalanceContinuityInFile {
		continuity = "Valid"
	}
	return &UploadResult{
		BankUploadBatch:   *batch,
		UploadBatchID:     batch.ID,
		Uploaded:          batch.UploadedCount,
		SkippedDuplicates: batch.SkippedCount,
		BalanceContinuity: continuity,
	}
}

// previousClosing is the balance after the most recent live transaction of
// the account, or nil when the account has none.
func previousClosing(db *gorm.DB, bankAccountID string) (*decimal.Decimal, error) {
	var last models.BankTransaction
	err := db.Scopes(models.NotDeleted).
		Where("bank_account_id = ?", bankAccountID).
		Order(newestFirst).
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &last.BalanceAmount, nil
}

// GetBatchTransactions returns the live rows of a batch with totals
func (s *uploadService) GetBatchTransactions(ctx context.Context, scope Scope, batchID string) (*BatchTransactions, error) {
	if batchID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "batch_id is required")
	}
	db := s.db.WithContext(ctx)

	var batch models.BankUploadBatch
	err := db.Scopes(scope.bankAccountFilter("bank_account_id")).First(&batch, "id = ?", batchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.BankTransaction
	if err := db.Scopes(models.NotDeleted).
		Where("upload_batch_id = ?", batch.ID).
		Order(newestFirst).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := &BatchTransactions{
		Transactions: txns,
		TotalCredit:  decimal.Zero,
		TotalDebit:   decimal.Zero,
		FinalBalance: decimal.Zero,
	}
	if out.Transactions == nil {
		out.Transactions = []models.BankTransaction{}
	}
	for _, t := range txns {
		if t.CreditAmount.Valid {
			out.TotalCredit = out.TotalCredit.Add(t.CreditAmount.Decimal)
		}
		if t.DebitAmount.Valid {
			out.TotalDebit = out.TotalDebit.Add(t.DebitAmount.Decimal)
		}
	}
	if len(txns) > 0 {
		out.FinalBalance = txns[0].BalanceAmount
	}
	return out, nil
}

// GetRecentUploads returns the latest batches of a bank account
func (s *uploadService) GetRecentUploads(ctx context.Context, scope Scope, bankAccountID string) ([]RecentUpload, error) {
	db := s.db.WithContext(ctx)
	if _, err := findBankAccount(db, scope, bankAccountID); err != nil {
		return nil, err
	}

	var batches []models.BankUploadBatch
	if err := db.Preload("UploadedBy").
		Where("bank_account_id = ?", bankAccountID).
		Order("created_at DESC").
		Limit(recentUploadsLimit).
		Find(&batches).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]RecentUpload, 0, len(batches))
	for i := range batches {
		b := &batches[i]
		status := "Needs Review"
		if b.Passed() {
			status = "Passed"
		}
		uploadedBy := "-"
		if b.UploadedBy != nil {
			uploadedBy = b.UploadedBy.DisplayName()
		}
		rows = append(rows, RecentUpload{
			BatchID:              b.ID,
			UploadDate:           b.CreatedAt.Format(uploadDateLayout),
			FileName:             b.FileName,
			UploadedBy:           uploadedBy,
			Source:               string(b.Source),
			TransactionsUploaded: b.UploadedCount,
			SkippedCount:         b.SkippedCount,
			ErrorsCount:          b.ErrorsCount,
			Status:               status,
		})
	}
	return rows, nil
}
