package testutil_test

import (
	"testing"

	"igen/internal/errors"
	"igen/internal/models"
	"igen/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{
		"companies", "users", "user_companies", "bank_accounts", "cost_centres",
		"transaction_types", "entities", "assets", "contracts",
		"bank_upload_batches", "bank_transactions", "classifications", "audit_logs",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestCompany(t, first)

	var count int64
	second.Model(&models.Company{}).Count(&count)
	if count != 0 {
		t.Errorf("expected an empty second database, got %d companies", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	company := testutil.CreateTestCompany(t, db)
	if company.ID == "" {
		t.Fatal("company should have an ID")
	}

	user := testutil.CreateTestUser(t, db, models.RoleAccountant, company)
	var loaded models.User
	if err := db.Preload("Companies").First(&loaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if len(loaded.CompanyIDs()) != 1 || loaded.CompanyIDs()[0] != company.ID {
		t.Errorf("expected user assigned to %s, got %v", company.ID, loaded.CompanyIDs())
	}

	account := testutil.CreateTestBankAccount(t, db, company.ID)
	refs := testutil.CreateTestReferenceSet(t, db, company.ID)
	if refs.Contract.EntityID != refs.Entity.ID {
		t.Errorf("contract should point at the fixture entity")
	}

	batch := testutil.CreateTestBatch(t, db, account.ID)
	txn := testutil.CreateTestBankTransaction(t, db, account.ID, batch.ID, "-1500.50")
	if txn.SignedAmount.StringFixed(2) != "-1500.50" {
		t.Errorf("expected signed amount -1500.50, got %s", txn.SignedAmount.StringFixed(2))
	}
	if len(txn.DedupeKey) != 64 {
		t.Errorf("expected a 64 character dedupe key, got %q", txn.DedupeKey)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithDetails(errors.ErrMissingColumns, "Missing required column(s): date",
		map[string]any{"upload_batch_id": "batch-1"})

	appErr := testutil.AssertAppError(t, err, "MISSING_COLUMNS")
	if got := testutil.ErrorDetail(t, appErr, "upload_batch_id"); got != "batch-1" {
		t.Errorf("expected batch-1, got %s", got)
	}
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
