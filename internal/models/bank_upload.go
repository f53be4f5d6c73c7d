package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"igen/internal/statement"
	"igen/internal/uuid"
)

// UploadSource records which surface a statement came in through.
type UploadSource string

const (
	UploadSourceWeb      UploadSource = "WEB"
	UploadSourcePipeline UploadSource = "PIPELINE"
	UploadSourceCLI      UploadSource = "CLI"
)

// TransactionSourceBank is the source tag of rows ingested from a statement.
const TransactionSourceBank = "BANK"

// BankUploadBatch is one uploaded statement file. It is created before
// parsing starts and finalised once with the counts and continuity flags.
type BankUploadBatch struct {
	Base
	BankAccountID              string       `gorm:"type:uuid;not null;index:idx_batches_account_created,priority:1" json:"bank_account"`
	BankAccount                *BankAccount `json:"-"`
	FileName                   string       `gorm:"size:255;not null" json:"file_name"`
	FileSHA256                 string       `gorm:"column:file_sha256;size:64" json:"file_sha256"`
	Source                     UploadSource `gorm:"size:16;not null" json:"source"`
	UploadedByID               *string      `gorm:"type:uuid" json:"uploaded_by"`
	UploadedBy                 *User        `gorm:"foreignKey:UploadedByID" json:"-"`
	UploadedCount              int          `gorm:"not null" json:"uploaded_count"`
	SkippedCount               int          `gorm:"not null" json:"skipped_count"`
	ErrorsCount                int          `gorm:"not null" json:"errors_count"`
	BalanceContinuityInFile    bool         `gorm:"not null" json:"balance_continuity_in_file"`
	PreviousEndingBalanceMatch bool         `gorm:"not null" json:"previous_ending_balance_match"`
	CreatedAt                  time.Time    `gorm:"index:idx_batches_account_created,priority:2" json:"created_at"`
}

// Passed reports whether the batch needs no manual review.
func (b *BankUploadBatch) Passed() bool {
	return b.BalanceContinuityInFile && b.PreviousEndingBalanceMatch && b.ErrorsCount == 0
}

// BankTransaction is one statement row. SignedAmount and DedupeKey are
// derived on every save and never taken from callers.
type BankTransaction struct {
	ID              string              `gorm:"type:uuid;primaryKey" json:"id"`
	BankAccountID   string              `gorm:"type:uuid;not null;index;uniqueIndex:uniq_txn_account_dedupe,where:is_deleted = false" json:"bank_account"`
	BankAccount     *BankAccount        `json:"-"`
	UploadBatchID   string              `gorm:"type:uuid;not null;index" json:"upload_batch"`
	UploadBatch     *BankUploadBatch    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TransactionDate time.Time           `gorm:"type:date;not null;index" json:"transaction_date"`
	Narration       string              `gorm:"type:text;not null" json:"narration"`
	CreditAmount    decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"credit_amount"`
	DebitAmount     decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"debit_amount"`
	BalanceAmount   decimal.Decimal     `gorm:"type:numeric(14,2);not null" json:"balance_amount"`
	UTRNumber       *string             `gorm:"column:utr_number;size:100;index" json:"utr_number"`
	SignedAmount    decimal.Decimal     `gorm:"type:numeric(14,2);not null" json:"signed_amount"`
	DedupeKey       string              `gorm:"size:64;not null;uniqueIndex:uniq_txn_account_dedupe" json:"-"`
	Source          string              `gorm:"size:10;not null" json:"source"`
	SourceRow       int                 `gorm:"not null" json:"source_row"`
	IsDeleted       bool                `gorm:"not null;index" json:"is_deleted"`
	DeletedAt       *time.Time          `json:"deleted_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// BeforeSave recomputes the derived columns.
func (t *BankTransaction) BeforeSave(tx *gorm.DB) error {
	t.SignedAmount = statement.SignedAmount(t.CreditAmount, t.DebitAmount)
	t.DedupeKey = statement.DedupeKey(t.TransactionDate, t.Narration, t.SignedAmount, t.UTRNumber)
	return nil
}

// BeforeCreate assigns the id and default source.
func (t *BankTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	if t.Source == "" {
		t.Source = TransactionSourceBank
	}
	return nil
}

// AbsAmount is the magnitude classifications must allocate.
func (t *BankTransaction) AbsAmount() decimal.Decimal {
	return t.SignedAmount.Abs()
}

// IsCredit reports whether money came into the account.
func (t *BankTransaction) IsCredit() bool {
	return t.SignedAmount.IsPositive()
}

// NewBankTransaction builds an unsaved transaction from a parsed statement row.
func NewBankTransaction(bankAccountID, batchID string, row statement.Row) BankTransaction {
	return BankTransaction{
		BankAccountID:   bankAccountID,
		UploadBatchID:   batchID,
		TransactionDate: row.Date,
		Narration:       row.Narration,
		CreditAmount:    row.Credit,
		DebitAmount:     row.Debit,
		BalanceAmount:   row.Balance,
		UTRNumber:       row.UTR,
		SourceRow:       row.Number,
	}
}
