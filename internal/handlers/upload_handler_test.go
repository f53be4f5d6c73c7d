package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/services"
)

// --- mock services ---

type mockUploadService struct {
	ingestFn              func(scope services.Scope, req services.IngestRequest) (*services.UploadResult, error)
	getBatchTransactionFn func(batchID string) (*services.BatchTransactions, error)
	getRecentUploadsFn    func(bankAccountID string) ([]services.RecentUpload, error)
}

var _ services.UploadServicer = (*mockUploadService)(nil)

func (m *mockUploadService) Ingest(_ context.Context, scope services.Scope, req services.IngestRequest) (*services.UploadResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(scope, req)
	}
	return &services.UploadResult{}, nil
}

func (m *mockUploadService) GetBatchTransactions(_ context.Context, _ services.Scope, batchID string) (*services.BatchTransactions, error) {
	if m.getBatchTransactionFn != nil {
		return m.getBatchTransactionFn(batchID)
	}
	return &services.BatchTransactions{}, nil
}

func (m *mockUploadService) GetRecentUploads(_ context.Context, _ services.Scope, bankAccountID string) ([]services.RecentUpload, error) {
	if m.getRecentUploadsFn != nil {
		return m.getRecentUploadsFn(bankAccountID)
	}
	return nil, nil
}

// --- helpers ---

func setupUploadRouter(handler *UploadHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/bank-uploads", injectScope(models.RoleAccountant, "company-a"))
	g.POST("/upload", handler.Upload)
	g.GET("/batch-transactions", handler.GetBatchTransactions)
	g.GET("/recent-uploads", handler.GetRecentUploads)
	r.POST("/pipeline/bank-uploads/upload", handler.PipelineUpload)
	return r
}

func doUpload(r *gin.Engine, path, bankAccountID, fileName, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if bankAccountID != "" {
		_ = w.WriteField("bank_account_id", bankAccountID)
	}
	if fileName != "" {
		part, _ := w.CreateFormFile("file", fileName)
		_, _ = io.WriteString(part, content)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestUploadHandler_Upload(t *testing.T) {
	t.Run("returns 201 with the batch result", func(t *testing.T) {
		var gotScope services.Scope
		var gotReq services.IngestRequest
		var gotBody string
		svc := &mockUploadService{
			ingestFn: func(scope services.Scope, req services.IngestRequest) (*services.UploadResult, error) {
				gotScope, gotReq = scope, req
				data, _ := io.ReadAll(req.Content)
				gotBody = string(data)
				return &services.UploadResult{UploadBatchID: "batch-1", Uploaded: 2, BalanceContinuity: "Valid"}, nil
			},
		}
		r := setupUploadRouter(NewUploadHandler(svc, &mockAuditService{}, 1<<20))

		rec := doUpload(r, "/bank-uploads/upload", "acc-1", "jan.csv", "Date,Narration\n")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["upload_batch_id"] != "batch-1" || result["uploaded"] != float64(2) {
			t.Errorf("unexpected response %v", result)
		}
		if gotReq.BankAccountID != "acc-1" || gotReq.FileName != "jan.csv" || gotReq.Source != models.UploadSourceWeb {
			t.Errorf("unexpected ingest request %+v", gotReq)
		}
		if gotBody != "Date,Narration\n" {
			t.Errorf("expected file content to reach the service, got %q", gotBody)
		}
		if gotScope.IsSuper() || gotScope.UserID != testUserID {
			t.Errorf("expected caller scope, got %+v", gotScope)
		}
	})

	t.Run("missing columns carry detected headers", func(t *testing.T) {
		svc := &mockUploadService{
			ingestFn: func(_ services.Scope, _ services.IngestRequest) (*services.UploadResult, error) {
				return nil, apperrors.WithDetails(apperrors.ErrMissingColumns, "Missing required columns: Date",
					map[string]any{"detected_headers": []string{"Narration"}, "upload_batch_id": "batch-2"})
			},
		}
		r := setupUploadRouter(NewUploadHandler(svc, &mockAuditService{}, 0))

		rec := doUpload(r, "/bank-uploads/upload", "acc-1", "jan.csv", "Narration\n")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "MISSING_COLUMNS")
		if headers, _ := result["detected_headers"].([]interface{}); len(headers) != 1 {
			t.Errorf("expected detected_headers, got %v", result)
		}
	})

	t.Run("requires a file", func(t *testing.T) {
		r := setupUploadRouter(NewUploadHandler(&mockUploadService{}, &mockAuditService{}, 0))

		rec := doUpload(r, "/bank-uploads/upload", "acc-1", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if detail := parseJSON(t, rec)["detail"]; detail != "No file uploaded." {
			t.Errorf("unexpected detail %v", detail)
		}
	})

	t.Run("rejects an oversized body", func(t *testing.T) {
		called := false
		svc := &mockUploadService{
			ingestFn: func(_ services.Scope, _ services.IngestRequest) (*services.UploadResult, error) {
				called = true
				return &services.UploadResult{}, nil
			},
		}
		r := setupUploadRouter(NewUploadHandler(svc, &mockAuditService{}, 1024))

		rec := doUpload(r, "/bank-uploads/upload", "acc-1", "big.csv", strings.Repeat("x", 4096))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "FILE_TOO_LARGE")
		if called {
			t.Error("expected the service not to be called")
		}
	})

	t.Run("requires a multipart body", func(t *testing.T) {
		r := setupUploadRouter(NewUploadHandler(&mockUploadService{}, &mockAuditService{}, 0))

		rec := doRequest(r, http.MethodPost, "/bank-uploads/upload", `{"bank_account_id":"acc-1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("requires a bank account", func(t *testing.T) {
		r := setupUploadRouter(NewUploadHandler(&mockUploadService{}, &mockAuditService{}, 0))

		rec := doUpload(r, "/bank-uploads/upload", "", "jan.csv", "x")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestUploadHandler_PipelineUpload(t *testing.T) {
	var gotScope services.Scope
	var gotSource models.UploadSource
	svc := &mockUploadService{
		ingestFn: func(scope services.Scope, req services.IngestRequest) (*services.UploadResult, error) {
			gotScope, gotSource = scope, req.Source
			return &services.UploadResult{UploadBatchID: "batch-3"}, nil
		},
	}
	r := setupUploadRouter(NewUploadHandler(svc, &mockAuditService{}, 0))

	rec := doUpload(r, "/pipeline/bank-uploads/upload", "acc-1", "feb.csv", "x")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotScope.IsSuper() || gotScope.UserID != "" || gotSource != models.UploadSourcePipeline {
		t.Errorf("expected system scope and pipeline source, got %+v %s", gotScope, gotSource)
	}
}

func TestUploadHandler_GetRecentUploads(t *testing.T) {
	svc := &mockUploadService{
		getRecentUploadsFn: func(bankAccountID string) ([]services.RecentUpload, error) {
			if bankAccountID == "empty" {
				return nil, nil
			}
			return []services.RecentUpload{{BatchID: "batch-1", Status: "Passed"}}, nil
		},
	}
	r := setupUploadRouter(NewUploadHandler(svc, &mockAuditService{}, 0))

	rec := doRequest(r, http.MethodGet, "/bank-uploads/recent-uploads?bank_account_id=acc-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	uploads, ok := parseJSON(t, rec)["recent_uploads"].([]interface{})
	if !ok || len(uploads) != 1 {
		t.Fatalf("expected recent_uploads with one batch, got %s", rec.Body.String())
	}
	if first := uploads[0].(map[string]interface{}); first["batch_id"] != "batch-1" || first["status"] != "Passed" {
		t.Errorf("unexpected upload %v", first)
	}

	rec = doRequest(r, http.MethodGet, "/bank-uploads/recent-uploads?bank_account_id=empty", "")
	if uploads, ok := parseJSON(t, rec)["recent_uploads"].([]interface{}); !ok || len(uploads) != 0 {
		t.Errorf("expected an empty recent_uploads list, got %s", rec.Body.String())
	}
}

func TestUploadHandler_ReadSide(t *testing.T) {
	svc := &mockUploadService{
		getBatchTransactionFn: func(batchID string) (*services.BatchTransactions, error) {
			if batchID != "batch-1" {
				return nil, apperrors.ErrBatchNotFound
			}
			return &services.BatchTransactions{}, nil
		},
		getRecentUploadsFn: func(_ string) ([]services.RecentUpload, error) {
			return []services.RecentUpload{{BatchID: "batch-1", Status: "Passed"}}, nil
		},
	}
	r := setupUploadRouter(NewUploadHandler(svc, &mockAuditService{}, 0))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"batch transactions", "/bank-uploads/batch-transactions?batch_id=batch-1", http.StatusOK},
		{"unknown batch", "/bank-uploads/batch-transactions?batch_id=other", http.StatusNotFound},
		{"missing batch id", "/bank-uploads/batch-transactions", http.StatusBadRequest},
		{"recent uploads", "/bank-uploads/recent-uploads?bank_account_id=acc-1", http.StatusOK},
		{"missing bank account", "/bank-uploads/recent-uploads", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
