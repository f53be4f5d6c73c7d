package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"igen/internal/models"
	"igen/internal/pagination"
)

// CreateUserRequest carries the fields needed to register a user.
type CreateUserRequest struct {
	UserID     string
	Password   string
	FullName   string
	Role       models.Role
	CompanyIDs []string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(req CreateUserRequest) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByUserID(userID string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(userID, password string) (*models.User, error)
	StoreRefreshTokenHash(id, tokenHash string) error
	GetRefreshTokenHash(id string) (string, error)
	DeleteUser(id string) error
}

// CreateBankAccountRequest carries the fields of a new bank account.
type CreateBankAccountRequest struct {
	CompanyID     string
	AccountName   string
	AccountNumber string
	BankName      string
	IFSC          string
}

// BankAccountServicer defines the contract for bank account lookups.
type BankAccountServicer interface {
	CreateBankAccount(scope Scope, req CreateBankAccountRequest) (*models.BankAccount, error)
	ListBankAccounts(scope Scope, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error)
	GetBankAccount(scope Scope, id string) (*models.BankAccount, error)
}

// ReferenceKind names a reference data collection.
type ReferenceKind string

const (
	KindCostCentres      ReferenceKind = "cost-centres"
	KindTransactionTypes ReferenceKind = "transaction-types"
	KindEntities         ReferenceKind = "entities"
	KindAssets           ReferenceKind = "assets"
	KindContracts        ReferenceKind = "contracts"
)

// CreateReferenceRequest carries the union of fields used by the reference kinds.
type CreateReferenceRequest struct {
	CompanyID    string
	Name         string
	Direction    models.Direction
	EntityType   models.EntityType
	CostCentreID string
	EntityID     string
	Category     string
	TagID        string
	VendorName   string
	Description  string
}

// ReferenceServicer defines the contract for companies and reference data.
type ReferenceServicer interface {
	CreateCompany(name, code string) (*models.Company, error)
	ListCompanies(scope Scope) ([]models.Company, error)
	List(scope Scope, kind ReferenceKind, companyID string) (any, error)
	Create(scope Scope, kind ReferenceKind, req CreateReferenceRequest) (any, error)
}

// IngestRequest is one statement file to ingest.
type IngestRequest struct {
	BankAccountID string
	FileName      string
	Content       io.Reader
	Source        models.UploadSource
}

// UploadResult is the batch plus the convenience fields returned to callers.
type UploadResult struct {
	models.BankUploadBatch
	UploadBatchID     string `json:"upload_batch_id"`
	Uploaded          int    `json:"uploaded"`
	SkippedDuplicates int    `json:"skipped_duplicates"`
	BalanceContinuity string `json:"balance_continuity"`
}

// BatchTransactions lists a batch's rows with totals.
type BatchTransactions struct {
	Transactions []models.BankTransaction `json:"transactions"`
	TotalCredit  decimal.Decimal          `json:"total_credit"`
	TotalDebit   decimal.Decimal          `json:"total_debit"`
	FinalBalance decimal.Decimal          `json:"final_balance"`
}

// RecentUpload is one row of the recent uploads listing.
type RecentUpload struct {
	BatchID              string `json:"batch_id"`
	UploadDate           string `json:"upload_date"`
	FileName             string `json:"file_name"`
	UploadedBy           string `json:"uploaded_by"`
	Source               string `json:"source"`
	TransactionsUploaded int    `json:"transactions_uploaded"`
	SkippedCount         int    `json:"skipped_count"`
	ErrorsCount          int    `json:"errors_count"`
	Status               string `json:"status"`
}

// UploadServicer defines the contract for statement ingestion.
type UploadServicer interface {
	Ingest(ctx context.Context, scope Scope, req IngestRequest) (*UploadResult, error)
	GetBatchTransactions(ctx context.Context, scope Scope, batchID string) (*BatchTransactions, error)
	GetRecentUploads(ctx context.Context, scope Scope, bankAccountID string) ([]RecentUpload, error)
}

// BankTransactionFilter selects bank transactions for maintenance listings.
type BankTransactionFilter struct {
	BankAccountID  string
	IncludeDeleted bool
}

// BankTransactionServicer defines the contract for bank transaction maintenance.
type BankTransactionServicer interface {
	List(ctx context.Context, scope Scope, filter BankTransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.BankTransaction], error)
	Delete(ctx context.Context, scope Scope, id string) error
	Restore(ctx context.Context, scope Scope, id string) (*models.BankTransaction, error)
}

// Metadata is what a classification books an amount against.
type Metadata struct {
	TransactionTypeID string
	CostCentreID      string
	EntityID          string
	AssetID           *string
	ContractID        *string
	ValueDate         *time.Time
	Remarks           string
}

// Allocation is an amount booked against metadata.
type Allocation struct {
	Metadata
	Amount decimal.Decimal
}

// ClassifyRequest classifies a whole bank transaction in one row.
type ClassifyRequest struct {
	BankTransactionID string
	Allocation
}

// SplitRequest divides a bank transaction across several rows.
type SplitRequest struct {
	BankTransactionID string
	Rows              []Allocation
}

// ResplitRequest divides one active classification into several rows.
type ResplitRequest struct {
	ClassificationID string
	Rows             []Allocation
}

// ReclassifyRequest replaces the metadata of one active classification.
type ReclassifyRequest struct {
	ClassificationID string
	Metadata
}

// LedgerFilter selects bank transactions for the classification listing.
type LedgerFilter struct {
	BankAccountID    string
	StartDate        *time.Time
	EndDate          *time.Time
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
	Direction        string
	UnclassifiedOnly bool
	ClassifiedOnly   bool
	IncludeChildren  bool
	FlattenSplits    bool
	Window           pagination.Window
}

// ClassificationView is a classification with its reference names resolved.
type ClassificationView struct {
	ClassificationID        string                 `json:"classification_id"`
	BankTransactionID       string                 `json:"bank_transaction_id"`
	Amount                  string                 `json:"amount"`
	ValueDate               time.Time              `json:"value_date"`
	Remarks                 string                 `json:"remarks"`
	TransactionType         *string                `json:"transaction_type"`
	CostCentre              *string                `json:"cost_centre"`
	Entity                  *string                `json:"entity"`
	Asset                   *string                `json:"asset"`
	Contract                *string                `json:"contract"`
	IsActive                bool                   `json:"is_active_classification"`
	Operation               models.LedgerOperation `json:"operation"`
	OperationID             string                 `json:"operation_id"`
	ParentClassificationID  *string                `json:"parent_classification_id,omitempty"`
	SupersededAt            *time.Time             `json:"superseded_at,omitempty"`
	SupersededByOperationID *string                `json:"superseded_by_operation_id,omitempty"`
	CreatedAt               time.Time              `json:"created_at"`
}

// LedgerRow is one row of the classification listing.
type LedgerRow struct {
	ID               string               `json:"id"`
	TransactionDate  time.Time            `json:"transaction_date"`
	Narration        string               `json:"narration"`
	CreditAmount     decimal.NullDecimal  `json:"credit_amount"`
	DebitAmount      decimal.NullDecimal  `json:"debit_amount"`
	BalanceAmount    decimal.Decimal      `json:"balance_amount"`
	SignedAmount     decimal.Decimal      `json:"signed_amount"`
	UTRNumber        *string              `json:"utr_number"`
	ActiveCount      int                  `json:"active_count"`
	LastClassifiedAt *time.Time           `json:"last_classified_at"`
	Status           string               `json:"status"`
	IsSplitChild     bool                 `json:"is_split_child,omitempty"`
	Child            *ClassificationView  `json:"child,omitempty"`
	Children         []ClassificationView `json:"children,omitempty"`
}

// LedgerPage is a window of the classification listing.
type LedgerPage struct {
	Results []LedgerRow `json:"results"`
	Count   int64       `json:"count"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// ClassificationServicer defines the contract for the classification ledger.
type ClassificationServicer interface {
	List(ctx context.Context, scope Scope, filter LedgerFilter) (*LedgerPage, error)
	Classify(ctx context.Context, scope Scope, req ClassifyRequest) (*models.Classification, error)
	Split(ctx context.Context, scope Scope, req SplitRequest) ([]models.Classification, error)
	Resplit(ctx context.Context, scope Scope, req ResplitRequest) ([]models.Classification, error)
	Reclassify(ctx context.Context, scope Scope, req ReclassifyRequest) (*models.Classification, error)
	History(ctx context.Context, scope Scope, bankTransactionID string) ([]ClassificationView, error)
}

// ReportFilter selects classifications for the entity-wise report.
type ReportFilter struct {
	StartDate         time.Time
	EndDate           time.Time
	EntityID          string
	CostCentreID      string
	TransactionTypeID string
	MinAmount         *decimal.Decimal
	MaxAmount         *decimal.Decimal
}

// ReportRow is one active classification in the entity-wise report.
type ReportRow struct {
	ClassificationID  string          `json:"classification_id"`
	BankTransactionID string          `json:"bank_transaction_id"`
	ValueDate         time.Time       `json:"value_date"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Narration         string          `json:"narration"`
	Entity            string          `json:"entity"`
	CostCentre        string          `json:"cost_centre"`
	TransactionType   string          `json:"transaction_type"`
	Asset             *string         `json:"asset"`
	Contract          *string         `json:"contract"`
	Amount            decimal.Decimal `json:"amount"`
	Remarks           string          `json:"remarks"`
}

// ReportSummary totals the rows of a report.
type ReportSummary struct {
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	Net         decimal.Decimal `json:"net"`
	Count       int             `json:"count"`
}

// ReportServicer defines the contract for reporting over the ledger.
type ReportServicer interface {
	EntityReport(ctx context.Context, scope Scope, filter ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[ReportRow], error)
	Summary(ctx context.Context, scope Scope, filter ReportFilter) (*ReportSummary, error)
	Export(ctx context.Context, scope Scope, filter ReportFilter, w io.Writer) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
