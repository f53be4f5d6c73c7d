package services

import (
	"testing"

	"igen/internal/models"
	"igen/internal/pagination"
	"igen/internal/testutil"
)

func TestCreateCompany(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		company, err := svc.CreateCompany("Acme Estates", " acme ")
		testutil.AssertNoError(t, err)
		if company.Code != "ACME" || !company.IsActive {
			t.Errorf("unexpected company: %+v", company)
		}
	})

	t.Run("duplicate_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.CreateCompany("Acme Estates", "ACME")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCompany("Acme Again", "acme")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListCompanies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReferenceService(db)
	mine := testutil.CreateTestCompany(t, db)
	testutil.CreateTestCompany(t, db)

	all, err := svc.ListCompanies(SystemScope())
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Errorf("expected super user to see 2 companies, got %d", len(all))
	}

	scoped, err := svc.ListCompanies(Scope{Role: models.RoleAccountant, CompanyIDs: []string{mine.ID}})
	testutil.AssertNoError(t, err)
	if len(scoped) != 1 || scoped[0].ID != mine.ID {
		t.Errorf("expected only the assigned company, got %v", scoped)
	}

	none, err := svc.ListCompanies(Scope{Role: models.RoleAccountant})
	testutil.AssertNoError(t, err)
	if len(none) != 0 {
		t.Errorf("expected no companies for an unassigned user, got %d", len(none))
	}
}

func TestReferenceList(t *testing.T) {
	t.Run("scoped_by_company", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		mine := testutil.CreateTestCompany(t, db)
		theirs := testutil.CreateTestCompany(t, db)
		testutil.CreateTestReferenceSet(t, db, mine.ID)
		testutil.CreateTestReferenceSet(t, db, theirs.ID)

		scope := Scope{Role: models.RoleCenterHead, CompanyIDs: []string{mine.ID}}
		out, err := svc.List(scope, KindEntities, "")
		testutil.AssertNoError(t, err)
		entities := *out.(*[]models.Entity)
		if len(entities) != 1 || entities[0].CompanyID != mine.ID {
			t.Errorf("expected one entity of the assigned company, got %v", entities)
		}

		_, err = svc.List(scope, KindEntities, theirs.ID)
		testutil.AssertAppError(t, err, "COMPANY_NOT_FOUND")
	})

	t.Run("every_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		company := testutil.CreateTestCompany(t, db)
		testutil.CreateTestReferenceSet(t, db, company.ID)

		for _, kind := range []ReferenceKind{KindCostCentres, KindTransactionTypes, KindEntities, KindAssets, KindContracts} {
			t.Run(string(kind), func(t *testing.T) {
				_, err := svc.List(SystemScope(), kind, company.ID)
				testutil.AssertNoError(t, err)
			})
		}
	})

	t.Run("unknown_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)

		_, err := svc.List(SystemScope(), "vendors", "")
		testutil.AssertAppError(t, err, "UNKNOWN_REFERENCE_KIND")
	})
}

func TestReferenceCreate(t *testing.T) {
	t.Run("transaction_type_with_cost_centre", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		company := testutil.CreateTestCompany(t, db)

		cc, err := svc.Create(SystemScope(), KindCostCentres, CreateReferenceRequest{CompanyID: company.ID, Name: "Utilities"})
		testutil.AssertNoError(t, err)
		centre := cc.(*models.CostCentre)
		if centre.TransactionDirection != models.DirectionBoth {
			t.Errorf("expected default direction Both, got %s", centre.TransactionDirection)
		}

		tt, err := svc.Create(SystemScope(), KindTransactionTypes, CreateReferenceRequest{
			CompanyID:    company.ID,
			Name:         "Electricity",
			Direction:    models.DirectionDebit,
			CostCentreID: centre.ID,
		})
		testutil.AssertNoError(t, err)
		if got := tt.(*models.TransactionType); got.CostCentreID == nil || *got.CostCentreID != centre.ID {
			t.Error("expected transaction type linked to the cost centre")
		}
	})

	t.Run("transaction_type_needs_direction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		company := testutil.CreateTestCompany(t, db)

		_, err := svc.Create(SystemScope(), KindTransactionTypes, CreateReferenceRequest{CompanyID: company.ID, Name: "Misc"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("contract_with_foreign_entity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		company := testutil.CreateTestCompany(t, db)
		other := testutil.CreateTestCompany(t, db)
		mine := testutil.CreateTestReferenceSet(t, db, company.ID)
		foreign := testutil.CreateTestReferenceSet(t, db, other.ID)

		_, err := svc.Create(SystemScope(), KindContracts, CreateReferenceRequest{
			CompanyID:    company.ID,
			VendorName:   "Lift Co",
			CostCentreID: mine.CostCentre.ID,
			EntityID:     foreign.Entity.ID,
		})
		testutil.AssertAppError(t, err, "INVALID_REFERENCE")
	})

	t.Run("company_outside_scope", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		company := testutil.CreateTestCompany(t, db)

		_, err := svc.Create(Scope{Role: models.RoleAccountant}, KindEntities, CreateReferenceRequest{CompanyID: company.ID, Name: "Tower"})
		testutil.AssertAppError(t, err, "COMPANY_NOT_FOUND")
	})

	t.Run("name_required", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReferenceService(db)
		company := testutil.CreateTestCompany(t, db)

		_, err := svc.Create(SystemScope(), KindAssets, CreateReferenceRequest{CompanyID: company.ID, Name: "  "})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestBankAccounts(t *testing.T) {
	t.Run("create_and_get", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountService(db)
		company := testutil.CreateTestCompany(t, db)

		account, err := svc.CreateBankAccount(SystemScope(), CreateBankAccountRequest{
			CompanyID:     company.ID,
			AccountName:   "Collections",
			AccountNumber: "50100012345678",
			BankName:      "HDFC Bank",
			IFSC:          "hdfc0000123",
		})
		testutil.AssertNoError(t, err)
		if account.IFSC != "HDFC0000123" {
			t.Errorf("expected uppercased IFSC, got %s", account.IFSC)
		}

		got, err := svc.GetBankAccount(SystemScope(), account.ID)
		testutil.AssertNoError(t, err)
		if got.AccountNumber != "50100012345678" {
			t.Errorf("unexpected account number %s", got.AccountNumber)
		}
	})

	t.Run("duplicate_account_number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountService(db)
		company := testutil.CreateTestCompany(t, db)
		existing := testutil.CreateTestBankAccount(t, db, company.ID)

		_, err := svc.CreateBankAccount(SystemScope(), CreateBankAccountRequest{
			CompanyID:     company.ID,
			AccountName:   "Copy",
			AccountNumber: existing.AccountNumber,
		})
		testutil.AssertAppError(t, err, "DUPLICATE_BANK_ACCOUNT")
	})

	t.Run("list_is_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountService(db)
		mine := testutil.CreateTestCompany(t, db)
		theirs := testutil.CreateTestCompany(t, db)
		testutil.CreateTestBankAccount(t, db, mine.ID)
		testutil.CreateTestBankAccount(t, db, theirs.ID)

		page, err := svc.ListBankAccounts(Scope{Role: models.RoleAccountant, CompanyIDs: []string{mine.ID}}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 || page.Data[0].CompanyID != mine.ID {
			t.Errorf("expected only the assigned company's account, got %d", page.TotalItems)
		}
		if page.Data[0].Company == nil {
			t.Error("expected company to be preloaded")
		}

		_, err = svc.GetBankAccount(Scope{Role: models.RoleAccountant, CompanyIDs: []string{mine.ID}}, page.Data[0].ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("missing_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewBankAccountService(db).GetBankAccount(SystemScope(), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
