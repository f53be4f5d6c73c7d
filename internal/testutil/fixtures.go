package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"igen/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCompany creates an active company with a unique code.
func CreateTestCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	n := nextID()
	company := &models.Company{
		Name:     fmt.Sprintf("Test Company %d", n),
		Code:     fmt.Sprintf("C%d", n),
		IsActive: true,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}
	return company
}

// CreateTestUser creates a user with the given role assigned to companies.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role, companies ...*models.Company) *models.User {
	t.Helper()
	return CreateTestUserWithID(t, db, fmt.Sprintf("user%d", nextID()), role, companies...)
}

// CreateTestUserWithID creates a user with the given login id.
func CreateTestUserWithID(t *testing.T, db *gorm.DB, userID string, role models.Role, companies ...*models.Company) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		UserID:   userID,
		Password: string(hash),
		FullName: "Test " + userID,
		Role:     role,
		IsActive: true,
	}
	for _, c := range companies {
		user.Companies = append(user.Companies, *c)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBankAccount creates an active bank account for a company.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, companyID string) *models.BankAccount {
	t.Helper()

	n := nextID()
	account := &models.BankAccount{
		CompanyID:     companyID,
		AccountName:   fmt.Sprintf("Operating %d", n),
		AccountNumber: fmt.Sprintf("5010%08d", n),
		BankName:      "HDFC Bank",
		IFSC:          "HDFC0000001",
		IsActive:      true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// ReferenceSet is one of each reference row a classification needs.
type ReferenceSet struct {
	CostCentre      *models.CostCentre
	TransactionType *models.TransactionType
	Entity          *models.Entity
	Asset           *models.Asset
	Contract        *models.Contract
}

// CreateTestReferenceSet creates a cost centre, transaction type, entity,
// asset and contract for a company.
func CreateTestReferenceSet(t *testing.T, db *gorm.DB, companyID string) *ReferenceSet {
	t.Helper()

	n := nextID()
	set := &ReferenceSet{
		CostCentre: &models.CostCentre{
			CompanyID:            companyID,
			Name:                 fmt.Sprintf("Maintenance %d", n),
			TransactionDirection: models.DirectionBoth,
			IsActive:             true,
		},
		Entity: &models.Entity{
			CompanyID:  companyID,
			Name:       fmt.Sprintf("Tower %d", n),
			EntityType: models.EntityTypeProperty,
			Status:     models.StatusActive,
		},
		Asset: &models.Asset{
			CompanyID: companyID,
			Name:      fmt.Sprintf("Generator %d", n),
			Category:  "Electrical",
			IsActive:  true,
		},
	}
	for _, row := range []interface{}{set.CostCentre, set.Entity, set.Asset} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create test reference row: %v", err)
		}
	}

	set.TransactionType = &models.TransactionType{
		CompanyID:    companyID,
		CostCentreID: &set.CostCentre.ID,
		Name:         fmt.Sprintf("Repairs %d", n),
		Direction:    models.DirectionDebit,
		Status:       models.StatusActive,
	}
	set.Contract = &models.Contract{
		CompanyID:    companyID,
		CostCentreID: set.CostCentre.ID,
		EntityID:     set.Entity.ID,
		VendorName:   fmt.Sprintf("Vendor %d", n),
		IsActive:     true,
	}
	for _, row := range []interface{}{set.TransactionType, set.Contract} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create test reference row: %v", err)
		}
	}
	return set
}

// CreateTestBatch creates an empty upload batch for a bank account.
func CreateTestBatch(t *testing.T, db *gorm.DB, bankAccountID string) *models.BankUploadBatch {
	t.Helper()

	batch := &models.BankUploadBatch{
		BankAccountID:              bankAccountID,
		FileName:                   fmt.Sprintf("statement-%d.csv", nextID()),
		Source:                     models.UploadSourceWeb,
		BalanceContinuityInFile:    true,
		PreviousEndingBalanceMatch: true,
	}
	if err := db.Create(batch).Error; err != nil {
		t.Fatalf("failed to create test batch: %v", err)
	}
	return batch
}

// CreateTestBankTransaction creates a statement row with the given signed
// amount. Positive amounts are credits, negative amounts debits.
func CreateTestBankTransaction(t *testing.T, db *gorm.DB, bankAccountID, batchID, signed string) *models.BankTransaction {
	t.Helper()

	n := nextID()
	amount := decimal.RequireFromString(signed)
	txn := &models.BankTransaction{
		BankAccountID:   bankAccountID,
		UploadBatchID:   batchID,
		TransactionDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(n%300)),
		Narration:       fmt.Sprintf("Test narration %d", n),
		BalanceAmount:   decimal.NewFromInt(100000),
		SourceRow:       int(n),
	}
	if amount.IsNegative() {
		txn.DebitAmount = decimal.NewNullDecimal(amount.Neg())
	} else {
		txn.CreditAmount = decimal.NewNullDecimal(amount)
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test bank transaction: %v", err)
	}
	return txn
}
