// Package errors provides custom error types for the igen API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Details carries extra response fields such as detected_headers.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"detail"`
	StatusCode int            `json:"-"`
	Internal   error          `json:"-"`
	Details    map[string]any `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDetails creates a new AppError with a custom message and extra response fields.
func WithDetails(sentinel *AppError, message string, details map[string]any) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
		Details:    details,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid user id or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidAPIKey      = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineDisabled   = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline uploads are not configured", StatusCode: http.StatusServiceUnavailable}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUserID = &AppError{Code: "DUPLICATE_USER_ID", Message: "A user with this user id already exists", StatusCode: http.StatusConflict}
	ErrInvalidRole     = &AppError{Code: "INVALID_ROLE", Message: "Unsupported user role", StatusCode: http.StatusBadRequest}
)

// Reference data errors.
var (
	ErrCompanyNotFound      = &AppError{Code: "COMPANY_NOT_FOUND", Message: "Company not found", StatusCode: http.StatusNotFound}
	ErrBankAccountNotFound  = &AppError{Code: "BANK_ACCOUNT_NOT_FOUND", Message: "Bank account not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBankAccount = &AppError{Code: "DUPLICATE_BANK_ACCOUNT", Message: "A bank account with this account number already exists", StatusCode: http.StatusConflict}
	ErrUnknownReferenceKind = &AppError{Code: "UNKNOWN_REFERENCE_KIND", Message: "Unknown reference data kind", StatusCode: http.StatusNotFound}
	ErrInvalidReference     = &AppError{Code: "INVALID_REFERENCE", Message: "Referenced record does not exist for this company", StatusCode: http.StatusBadRequest}
	ErrBankAccountInactive  = &AppError{Code: "BANK_ACCOUNT_INACTIVE", Message: "Bank account is inactive", StatusCode: http.StatusBadRequest}
)

// Ingestion errors.
var (
	ErrUnsupportedFormat = &AppError{Code: "UNSUPPORTED_FORMAT", Message: "Only CSV files are supported", StatusCode: http.StatusBadRequest}
	ErrInvalidFile       = &AppError{Code: "INVALID_FILE", Message: "Unable to read the uploaded file", StatusCode: http.StatusBadRequest}
	ErrFileTooLarge      = &AppError{Code: "FILE_TOO_LARGE", Message: "Uploaded file exceeds the size limit", StatusCode: http.StatusRequestEntityTooLarge}
	ErrMissingColumns    = &AppError{Code: "MISSING_COLUMNS", Message: "Required columns are missing", StatusCode: http.StatusBadRequest}
	ErrBatchNotFound     = &AppError{Code: "BATCH_NOT_FOUND", Message: "Upload batch not found", StatusCode: http.StatusNotFound}
)

// Bank transaction errors.
var (
	ErrTransactionNotFound   = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Bank transaction not found", StatusCode: http.StatusNotFound}
	ErrTransactionClassified = &AppError{Code: "TRANSACTION_CLASSIFIED", Message: "Bank transaction has active classifications", StatusCode: http.StatusConflict}
	ErrDuplicateTransaction  = &AppError{Code: "DUPLICATE_TRANSACTION", Message: "An identical live transaction already exists", StatusCode: http.StatusConflict}
)

// Classification ledger errors.
var (
	ErrAlreadyClassified        = &AppError{Code: "ALREADY_CLASSIFIED", Message: "Transaction is already classified", StatusCode: http.StatusBadRequest}
	ErrAmountMismatch           = &AppError{Code: "AMOUNT_MISMATCH", Message: "Amount must equal the transaction amount", StatusCode: http.StatusBadRequest}
	ErrAlreadySplit             = &AppError{Code: "ALREADY_SPLIT", Message: "Transaction is already split", StatusCode: http.StatusBadRequest}
	ErrSplitTotalMismatch       = &AppError{Code: "SPLIT_TOTAL_MISMATCH", Message: "Split amounts must add up to the total", StatusCode: http.StatusBadRequest}
	ErrInvalidSplitAmount       = &AppError{Code: "INVALID_SPLIT_AMOUNT", Message: "Each split amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrNotActive                = &AppError{Code: "NOT_ACTIVE", Message: "Classification is not active", StatusCode: http.StatusBadRequest}
	ErrClassificationNotFound   = &AppError{Code: "CLASSIFICATION_NOT_FOUND", Message: "Classification not found", StatusCode: http.StatusNotFound}
	ErrLedgerInvariantViolation = &AppError{Code: "LEDGER_INVARIANT_VIOLATION", Message: "Active classifications no longer match the transaction amount", StatusCode: http.StatusInternalServerError}
)

// Reporting errors.
var (
	ErrNoReportData = &AppError{Code: "NO_DATA", Message: "No data to export.", StatusCode: http.StatusNoContent}
)
