package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"igen/internal/uuid"
)

// LedgerOperation names the ledger call that created a classification row.
type LedgerOperation string

const (
	OperationClassify   LedgerOperation = "classify"
	OperationSplit      LedgerOperation = "split"
	OperationResplit    LedgerOperation = "resplit"
	OperationReclassify LedgerOperation = "reclassify"
)

// Classification allocates part or all of a bank transaction to a
// transaction type, cost centre and entity. Rows are append-only: the only
// change after insert is the move to superseded, which clears
// IsActiveClassification and stamps SupersededAt and SupersededByOperationID.
type Classification struct {
	ID                      string           `gorm:"type:uuid;primaryKey" json:"classification_id"`
	BankTransactionID       string           `gorm:"type:uuid;not null;index:idx_cls_txn_active,priority:1" json:"bank_transaction_id"`
	BankTransaction         *BankTransaction `json:"-"`
	TransactionTypeID       string           `gorm:"type:uuid;not null;index" json:"transaction_type_id"`
	TransactionType         *TransactionType `json:"-"`
	CostCentreID            string           `gorm:"type:uuid;not null;index" json:"cost_centre_id"`
	CostCentre              *CostCentre      `json:"-"`
	EntityID                string           `gorm:"type:uuid;not null;index" json:"entity_id"`
	Entity                  *Entity          `json:"-"`
	AssetID                 *string          `gorm:"type:uuid" json:"asset_id"`
	Asset                   *Asset           `json:"-"`
	ContractID              *string          `gorm:"type:uuid" json:"contract_id"`
	Contract                *Contract        `json:"-"`
	Amount                  decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"amount"`
	ValueDate               time.Time        `gorm:"type:date;not null" json:"value_date"`
	Remarks                 string           `gorm:"type:text" json:"remarks"`
	IsActiveClassification  bool             `gorm:"not null;index:idx_cls_txn_active,priority:2" json:"is_active_classification"`
	Operation               LedgerOperation  `gorm:"size:16;not null" json:"operation"`
	OperationID             string           `gorm:"type:uuid;not null;index" json:"operation_id"`
	ParentClassificationID  *string          `gorm:"type:uuid" json:"parent_classification_id,omitempty"`
	SupersededAt            *time.Time       `json:"superseded_at,omitempty"`
	SupersededByOperationID *string          `gorm:"type:uuid" json:"superseded_by_operation_id,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (c *Classification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New()
	}
	return nil
}
