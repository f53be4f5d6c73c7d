package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "igen/internal/errors"
	"igen/internal/logger"
	"igen/internal/models"
	"igen/internal/pagination"
)

const (
	reportSheet      = "Entity-Wise Report"
	reportDateLayout = "2006-01-02"

	// signedClassificationAmount gives a classification the direction of its bank transaction.
	signedClassificationAmount = "CASE WHEN t.signed_amount < 0 THEN -c.amount ELSE c.amount END"
)

var reportColumns = []any{
	"Date", "Source", "Amount", "Cost Centre", "Entity",
	"Transaction Type", "Asset", "Contract", "Remarks",
}

type reportService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db, log: logger.Named("reports")}
}

// reportRecord is the flat shape a report query scans into.
type reportRecord struct {
	ClassificationID  string
	BankTransactionID string
	ValueDate         time.Time
	TransactionDate   time.Time
	Narration         string
	Entity            string
	CostCentre        string
	TransactionType   string
	Asset             *string
	Contract          *string
	Amount            decimal.Decimal
	Remarks           string
}

func (r *reportRecord) row() ReportRow {
	return ReportRow{
		ClassificationID:  r.ClassificationID,
		BankTransactionID: r.BankTransactionID,
		ValueDate:         r.ValueDate,
		TransactionDate:   r.TransactionDate,
		Narration:         r.Narration,
		Entity:            r.Entity,
		CostCentre:        r.CostCentre,
		TransactionType:   r.TransactionType,
		Asset:             r.Asset,
		Contract:          r.Contract,
		Amount:            r.Amount.Round(2),
		Remarks:           r.Remarks,
	}
}

// EntityReport returns a page of active classifications booked to an entity.
func (s *reportService) EntityReport(ctx context.Context, scope Scope, filter ReportFilter, page pagination.PageRequest) (*pagination.PageResponse[ReportRow], error) {
	if err := validateReportFilter(filter); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.reportQuery(ctx, scope, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []reportRecord
	if err := base.Select(reportSelect).
		Scopes(pagination.Paginate(page)).
		Order("c.value_date DESC, c.created_at DESC, c.id ASC").
		Scan(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]ReportRow, len(records))
	for i := range records {
		rows[i] = records[i].row()
	}
	resp := pagination.NewPageResponse(rows, page.Page, page.PageSize, total)
	return &resp, nil
}

// Summary totals every row the filter selects.
func (s *reportService) Summary(ctx context.Context, scope Scope, filter ReportFilter) (*ReportSummary, error) {
	if err := validateReportFilter(filter); err != nil {
		return nil, err
	}
	records, err := s.allRecords(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	summary := summarize(records)
	return &summary, nil
}

// Export writes the report as an XLSX workbook to w and returns its file name.
func (s *reportService) Export(ctx context.Context, scope Scope, filter ReportFilter, w io.Writer) (string, error) {
	if err := validateReportFilter(filter); err != nil {
		return "", err
	}
	records, err := s.allRecords(ctx, scope, filter)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", apperrors.ErrNoReportData
	}

	f, err := buildWorkbook(records, summarize(records))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	name := fmt.Sprintf("entity_wise_%s_%s_to_%s.xlsx", records[0].Entity,
		filter.StartDate.Format(reportDateLayout), filter.EndDate.Format(reportDateLayout))
	name = strings.ReplaceAll(name, " ", "_")

	s.log.Infow("entity report exported", "entity_id", filter.EntityID, "rows", len(records), "file_name", name)
	return name, nil
}

const reportSelect = "c.id AS classification_id, c.bank_transaction_id, c.value_date, " +
	"t.transaction_date, t.narration, e.name AS entity, cc.name AS cost_centre, " +
	"tt.name AS transaction_type, a.name AS asset, k.vendor_name AS contract, " +
	signedClassificationAmount + " AS amount, c.remarks"

// reportQuery selects the active classifications of live transactions that
// match filter and are visible to scope.
func (s *reportService) reportQuery(ctx context.Context, scope Scope, f ReportFilter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("classifications AS c").
		Joins("JOIN bank_transactions t ON t.id = c.bank_transaction_id").
		Joins("JOIN entities e ON e.id = c.entity_id").
		Joins("JOIN cost_centres cc ON cc.id = c.cost_centre_id").
		Joins("JOIN transaction_types tt ON tt.id = c.transaction_type_id").
		Joins("LEFT JOIN assets a ON a.id = c.asset_id").
		Joins("LEFT JOIN contracts k ON k.id = c.contract_id").
		Where("c.is_active_classification = ?", true).
		Where("t.is_deleted = ?", false).
		Where("c.entity_id = ?", f.EntityID).
		Where("c.value_date >= ? AND c.value_date <= ?", f.StartDate, f.EndDate).
		Scopes(scope.bankAccountFilter("t.bank_account_id"))

	if f.CostCentreID != "" {
		q = q.Where("c.cost_centre_id = ?", f.CostCentreID)
	}
	if f.TransactionTypeID != "" {
		q = q.Where("c.transaction_type_id = ?", f.TransactionTypeID)
	}
	if f.MinAmount != nil {
		q = q.Where(signedClassificationAmount+" >= CAST(? AS NUMERIC)", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		q = q.Where(signedClassificationAmount+" <= CAST(? AS NUMERIC)", f.MaxAmount.String())
	}
	return q
}

func (s *reportService) allRecords(ctx context.Context, scope Scope, filter ReportFilter) ([]reportRecord, error) {
	var records []reportRecord
	if err := s.reportQuery(ctx, scope, filter).
		Select(reportSelect).
		Order("c.value_date DESC, c.created_at DESC, c.id ASC").
		Scan(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

func validateReportFilter(f ReportFilter) error {
	var missing []string
	if f.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if f.EndDate.IsZero() {
		missing = append(missing, "end_date")
	}
	if f.EntityID == "" {
		missing = append(missing, "entity")
	}
	if len(missing) > 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Missing required filter(s): "+strings.Join(missing, ", "))
	}
	if f.StartDate.After(f.EndDate) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date cannot be after end_date.")
	}
	return nil
}

// summarize reports debits as a positive total; net keeps their sign.
func summarize(records []reportRecord) ReportSummary {
	credit, debit := decimal.Zero, decimal.Zero
	for i := range records {
		amount := records[i].Amount
		if amount.IsPositive() {
			credit = credit.Add(amount)
		} else if amount.IsNegative() {
			debit = debit.Add(amount)
		}
	}
	return ReportSummary{
		TotalCredit: credit.Round(2),
		TotalDebit:  debit.Neg().Round(2),
		Net:         credit.Add(debit).Round(2),
		Count:       len(records),
	}
}

func buildWorkbook(records []reportRecord, summary ReportSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	dateFmt := "dd-mmm-yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		f.Close()
		return nil, err
	}
	// built-in format 2 is 0.00
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		f.Close()
		return nil, err
	}

	widths := make([]int, len(reportColumns))
	track := func(values []any) {
		for i, v := range values {
			if v == nil {
				continue
			}
			if t, ok := v.(time.Time); ok {
				v = t.Format("02-Jan-2006")
			}
			if n := len(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	write := func(rowNum int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		track(values)
		return f.SetSheetRow(reportSheet, cell, &values)
	}

	if err := write(1, reportColumns); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "A1", "I1", bold); err != nil {
		f.Close()
		return nil, err
	}

	for i := range records {
		r := &records[i]
		if err := write(i+2, []any{
			r.ValueDate,
			models.TransactionSourceBank,
			r.Amount.Round(2).InexactFloat64(),
			r.CostCentre,
			r.Entity,
			r.TransactionType,
			stringOrEmpty(r.Asset),
			stringOrEmpty(r.Contract),
			r.Remarks,
		}); err != nil {
			f.Close()
			return nil, err
		}
	}
	last := len(records) + 1
	if err := f.SetCellStyle(reportSheet, "A2", fmt.Sprintf("A%d", last), dateStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "C2", fmt.Sprintf("C%d", last), moneyStyle); err != nil {
		f.Close()
		return nil, err
	}

	// one blank row, then the summary block
	rowNum := last + 2
	for _, line := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Total Credit", summary.TotalCredit},
		{"Total Debit", summary.TotalDebit},
		{"Net Amount", summary.Net},
	} {
		if err := write(rowNum, []any{line.label, "", line.value.InexactFloat64()}); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), bold); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(reportSheet, fmt.Sprintf("C%d", rowNum), fmt.Sprintf("C%d", rowNum), moneyStyle); err != nil {
			f.Close()
			return nil, err
		}
		rowNum++
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		width := float64(min(max(12, w+2), 60))
		if err := f.SetColWidth(reportSheet, col, col, width); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
