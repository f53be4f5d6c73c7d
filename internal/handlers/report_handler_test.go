package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/pagination"
	"igen/internal/services"
)

type mockReportService struct {
	entityReportFn func(filter services.ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[services.ReportRow], error)
	summaryFn      func(filter services.ReportFilter) (*services.ReportSummary, error)
	exportFn       func(filter services.ReportFilter, w io.Writer) (string, error)
}

var _ services.ReportServicer = (*mockReportService)(nil)

func (m *mockReportService) EntityReport(_ context.Context, _ services.Scope, filter services.ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[services.ReportRow], error) {
	if m.entityReportFn != nil {
		return m.entityReportFn(filter, page)
	}
	resp := pagination.NewPageResponse[services.ReportRow](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockReportService) Summary(_ context.Context, _ services.Scope, filter services.ReportFilter) (*services.ReportSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(filter)
	}
	return &services.ReportSummary{}, nil
}

func (m *mockReportService) Export(_ context.Context, _ services.Scope, filter services.ReportFilter, w io.Writer) (string, error) {
	if m.exportFn != nil {
		return m.exportFn(filter, w)
	}
	return "report.xlsx", nil
}

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/reports", injectScope(models.RoleCenterHead, "company-a"))
	g.GET("/entity-report", handler.EntityReport)
	g.GET("/entity-report/summary", handler.Summary)
	g.GET("/entity-report/export", handler.Export)
	return r
}

const reportParams = "start_date=2025-01-01&end_date=2025-03-31&entity_id=ent-1"

func TestReportHandler_EntityReport(t *testing.T) {
	t.Run("passes filters and paging", func(t *testing.T) {
		var got services.ReportFilter
		var gotPage pagination.PageRequest
		svc := &mockReportService{
			entityReportFn: func(f services.ReportFilter, p pagination.PageRequest) (*pagination.PageResponse[services.ReportRow], error) {
				got, gotPage = f, p
				resp := pagination.NewPageResponse([]services.ReportRow{{Amount: decimal.NewFromInt(-500)}}, 2, 10, 11)
				return &resp, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, http.MethodGet, "/reports/entity-report?"+reportParams+"&cost_centre_id=cc-1&min_amount=-1000&page=2&page_size=10", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.EntityID != "ent-1" || got.CostCentreID != "cc-1" || got.StartDate.Format(dateLayout) != "2025-01-01" {
			t.Errorf("unexpected filter %+v", got)
		}
		if got.MinAmount == nil || !got.MinAmount.Equal(decimal.NewFromInt(-1000)) {
			t.Errorf("expected signed min amount, got %v", got.MinAmount)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if parseJSON(t, rec)["total_items"] != float64(11) {
			t.Error("expected paginated response")
		}
	})

	tests := []struct {
		name       string
		query      string
		wantDetail string
	}{
		{"missing entity", "start_date=2025-01-01&end_date=2025-03-31", "start_date, end_date and entity_id are required."},
		{"bad date", "start_date=2025/01/01&end_date=2025-03-31&entity_id=e", "Invalid date format. Use YYYY-MM-DD."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupReportRouter(NewReportHandler(&mockReportService{}))
			rec := doRequest(r, http.MethodGet, "/reports/entity-report?"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if detail := parseJSON(t, rec)["detail"]; detail != tt.wantDetail {
				t.Errorf("expected detail %q, got %v", tt.wantDetail, detail)
			}
		})
	}
}

func TestReportHandler_Summary(t *testing.T) {
	svc := &mockReportService{
		summaryFn: func(_ services.ReportFilter) (*services.ReportSummary, error) {
			return &services.ReportSummary{
				TotalCredit: decimal.NewFromInt(120),
				TotalDebit:  decimal.NewFromInt(500),
				Net:         decimal.NewFromInt(-380),
				Count:       3,
			}, nil
		},
	}
	r := setupReportRouter(NewReportHandler(svc))

	rec := doRequest(r, http.MethodGet, "/reports/entity-report/summary?"+reportParams, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["net"] != "-380" || result["count"] != float64(3) {
		t.Errorf("unexpected summary %v", result)
	}
}

func TestReportHandler_Export(t *testing.T) {
	t.Run("streams the workbook", func(t *testing.T) {
		svc := &mockReportService{
			exportFn: func(_ services.ReportFilter, w io.Writer) (string, error) {
				_, _ = io.WriteString(w, "PK-workbook")
				return "entity_wise_Tower_A_2025-01-01_to_2025-03-31.xlsx", nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, http.MethodGet, "/reports/entity-report/export?"+reportParams, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Errorf("unexpected content type %s", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "entity_wise_Tower_A_2025-01-01_to_2025-03-31.xlsx") {
			t.Errorf("unexpected content disposition %s", cd)
		}
		if rec.Body.String() != "PK-workbook" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("no data is 204", func(t *testing.T) {
		svc := &mockReportService{
			exportFn: func(_ services.ReportFilter, _ io.Writer) (string, error) {
				return "", apperrors.ErrNoReportData
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, http.MethodGet, "/reports/entity-report/export?"+reportParams, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Error("expected an empty body")
		}
	})
}
