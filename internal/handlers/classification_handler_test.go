package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/services"
)

// --- mock services ---

type mockClassificationService struct {
	listFn       func(scope services.Scope, filter services.LedgerFilter) (*services.LedgerPage, error)
	classifyFn   func(req services.ClassifyRequest) (*models.Classification, error)
	splitFn      func(req services.SplitRequest) ([]models.Classification, error)
	resplitFn    func(req services.ResplitRequest) ([]models.Classification, error)
	reclassifyFn func(req services.ReclassifyRequest) (*models.Classification, error)
	historyFn    func(bankTransactionID string) ([]services.ClassificationView, error)
}

var _ services.ClassificationServicer = (*mockClassificationService)(nil)

func (m *mockClassificationService) List(_ context.Context, scope services.Scope, filter services.LedgerFilter) (*services.LedgerPage, error) {
	if m.listFn != nil {
		return m.listFn(scope, filter)
	}
	return &services.LedgerPage{}, nil
}

func (m *mockClassificationService) Classify(_ context.Context, _ services.Scope, req services.ClassifyRequest) (*models.Classification, error) {
	if m.classifyFn != nil {
		return m.classifyFn(req)
	}
	return &models.Classification{}, nil
}

func (m *mockClassificationService) Split(_ context.Context, _ services.Scope, req services.SplitRequest) ([]models.Classification, error) {
	if m.splitFn != nil {
		return m.splitFn(req)
	}
	return nil, nil
}

func (m *mockClassificationService) Resplit(_ context.Context, _ services.Scope, req services.ResplitRequest) ([]models.Classification, error) {
	if m.resplitFn != nil {
		return m.resplitFn(req)
	}
	return nil, nil
}

func (m *mockClassificationService) Reclassify(_ context.Context, _ services.Scope, req services.ReclassifyRequest) (*models.Classification, error) {
	if m.reclassifyFn != nil {
		return m.reclassifyFn(req)
	}
	return &models.Classification{}, nil
}

func (m *mockClassificationService) History(_ context.Context, _ services.Scope, bankTransactionID string) ([]services.ClassificationView, error) {
	if m.historyFn != nil {
		return m.historyFn(bankTransactionID)
	}
	return nil, nil
}

// --- helpers ---

const (
	txnID   = "0190c6d8-0001-7000-8000-000000000001"
	typeID  = "0190c6d8-0002-7000-8000-000000000001"
	ccID    = "0190c6d8-0003-7000-8000-000000000001"
	entID   = "0190c6d8-0004-7000-8000-000000000001"
	clsID   = "0190c6d8-0005-7000-8000-000000000001"
	refPart = `"transaction_type_id":"` + typeID + `","cost_centre_id":"` + ccID + `","entity_id":"` + entID + `"`
)

func setupClassificationRouter(handler *ClassificationHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/tx-classify", injectScope(models.RoleAccountant, "company-a"))
	g.GET("/unclassified", handler.ListLedger)
	g.GET("/history/:bank_transaction_id", handler.History)
	g.POST("/classify", handler.Classify)
	g.POST("/split", handler.Split)
	g.POST("/resplit", handler.Resplit)
	g.POST("/reclassify", handler.Reclassify)
	return r
}

// --- tests ---

func TestClassificationHandler_ListLedger(t *testing.T) {
	t.Run("defaults to unclassified only", func(t *testing.T) {
		var got services.LedgerFilter
		var scope services.Scope
		svc := &mockClassificationService{
			listFn: func(s services.Scope, f services.LedgerFilter) (*services.LedgerPage, error) {
				scope, got = s, f
				return &services.LedgerPage{Count: 0, Limit: 200}, nil
			},
		}
		r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/tx-classify/unclassified?bank_account_id=acc&type=debit&min_amount=10&start_date=2025-01-01", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.UnclassifiedOnly || got.ClassifiedOnly || got.Direction != "debit" {
			t.Errorf("unexpected filter %+v", got)
		}
		if got.MinAmount == nil || !got.MinAmount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected min amount 10, got %v", got.MinAmount)
		}
		if got.StartDate == nil || got.StartDate.Format(dateLayout) != "2025-01-01" {
			t.Errorf("expected start date, got %v", got.StartDate)
		}
		if scope.Role != models.RoleAccountant || len(scope.CompanyIDs) != 1 {
			t.Errorf("expected caller scope, got %+v", scope)
		}
	})

	t.Run("classified_only flips the default", func(t *testing.T) {
		var got services.LedgerFilter
		svc := &mockClassificationService{
			listFn: func(_ services.Scope, f services.LedgerFilter) (*services.LedgerPage, error) {
				got = f
				return &services.LedgerPage{}, nil
			},
		}
		r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/tx-classify/unclassified?bank_account_id=acc&classified_only=true&flatten_splits=true&limit=50", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.UnclassifiedOnly || !got.ClassifiedOnly || !got.FlattenSplits || got.Window.Limit != 50 {
			t.Errorf("unexpected filter %+v", got)
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"missing bank account", ""},
		{"bad date", "bank_account_id=acc&start_date=01-01-2025"},
		{"bad type", "bank_account_id=acc&type=sideways"},
		{"bad amount", "bank_account_id=acc&max_amount=lots"},
		{"limit too large", "bank_account_id=acc&limit=501"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupClassificationRouter(NewClassificationHandler(&mockClassificationService{}, &mockAuditService{}))
			rec := doRequest(r, http.MethodGet, "/tx-classify/unclassified?"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestClassificationHandler_Classify(t *testing.T) {
	t.Run("returns 201 with id and timestamp", func(t *testing.T) {
		created := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
		var got services.ClassifyRequest
		svc := &mockClassificationService{
			classifyFn: func(req services.ClassifyRequest) (*models.Classification, error) {
				got = req
				return &models.Classification{ID: clsID, Amount: req.Amount, CreatedAt: created}, nil
			},
		}
		r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

		body := `{"bank_transaction_id":"` + txnID + `",` + refPart + `,"amount":"1250.50","value_date":"2025-01-31"}`
		rec := doRequest(r, http.MethodPost, "/tx-classify/classify", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["classification_id"] != clsID || result["created_at"] == nil {
			t.Errorf("unexpected response %v", result)
		}
		if !got.Amount.Equal(decimal.RequireFromString("1250.50")) || got.ValueDate == nil || got.AssetID != nil {
			t.Errorf("unexpected service request %+v", got)
		}
	})

	t.Run("maps ledger errors", func(t *testing.T) {
		svc := &mockClassificationService{
			classifyFn: func(_ services.ClassifyRequest) (*models.Classification, error) {
				return nil, apperrors.ErrAmountMismatch
			},
		}
		r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

		body := `{"bank_transaction_id":"` + txnID + `",` + refPart + `,"amount":1}`
		rec := doRequest(r, http.MethodPost, "/tx-classify/classify", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "AMOUNT_MISMATCH")
	})

	t.Run("rejects a bad value date", func(t *testing.T) {
		r := setupClassificationRouter(NewClassificationHandler(&mockClassificationService{}, &mockAuditService{}))

		body := `{"bank_transaction_id":"` + txnID + `",` + refPart + `,"amount":"1","value_date":"31/01/2025"}`
		rec := doRequest(r, http.MethodPost, "/tx-classify/classify", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if detail := parseJSON(t, rec)["detail"]; detail != "Invalid date format. Use YYYY-MM-DD." {
			t.Errorf("unexpected detail %v", detail)
		}
	})

	t.Run("requires references", func(t *testing.T) {
		r := setupClassificationRouter(NewClassificationHandler(&mockClassificationService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/tx-classify/classify", `{"bank_transaction_id":"`+txnID+`","amount":"1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestClassificationHandler_Split(t *testing.T) {
	t.Run("returns children", func(t *testing.T) {
		var got services.SplitRequest
		svc := &mockClassificationService{
			splitFn: func(req services.SplitRequest) ([]models.Classification, error) {
				got = req
				return []models.Classification{{ID: "a"}, {ID: "b"}}, nil
			},
		}
		r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

		body := `{"bank_transaction_id":"` + txnID + `","rows":[{` + refPart + `,"amount":"60"},{` + refPart + `,"amount":"40"}]}`
		rec := doRequest(r, http.MethodPost, "/tx-classify/split", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["children_count"] != float64(2) || len(result["classification_ids"].([]interface{})) != 2 {
			t.Errorf("unexpected response %v", result)
		}
		if len(got.Rows) != 2 || !got.Rows[1].Amount.Equal(decimal.NewFromInt(40)) {
			t.Errorf("unexpected rows %+v", got.Rows)
		}
	})

	t.Run("rejects empty rows", func(t *testing.T) {
		r := setupClassificationRouter(NewClassificationHandler(&mockClassificationService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/tx-classify/split", `{"bank_transaction_id":"`+txnID+`","rows":[]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestClassificationHandler_ResplitAndReclassify(t *testing.T) {
	svc := &mockClassificationService{
		resplitFn: func(req services.ResplitRequest) ([]models.Classification, error) {
			if req.ClassificationID != clsID {
				return nil, apperrors.ErrClassificationNotFound
			}
			return []models.Classification{{ID: "x"}, {ID: "y"}, {ID: "z"}}, nil
		},
		reclassifyFn: func(req services.ReclassifyRequest) (*models.Classification, error) {
			return nil, apperrors.ErrNotActive
		},
	}
	r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

	body := `{"classification_id":"` + clsID + `","rows":[{` + refPart + `,"amount":"1"},{` + refPart + `,"amount":"1"},{` + refPart + `,"amount":"1"}]}`
	rec := doRequest(r, http.MethodPost, "/tx-classify/resplit", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["children_count"] != float64(3) {
		t.Error("expected three children")
	}

	rec = doRequest(r, http.MethodPost, "/tx-classify/reclassify", `{"classification_id":"`+clsID+`",`+refPart+`}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "NOT_ACTIVE")
}

func TestClassificationHandler_History(t *testing.T) {
	svc := &mockClassificationService{
		historyFn: func(id string) ([]services.ClassificationView, error) {
			if id != txnID {
				return nil, apperrors.ErrTransactionNotFound
			}
			return []services.ClassificationView{{ClassificationID: "a", IsActive: false}, {ClassificationID: "b", IsActive: true}}, nil
		},
	}
	r := setupClassificationRouter(NewClassificationHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/tx-classify/history/"+txnID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, http.MethodGet, "/tx-classify/history/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
}
