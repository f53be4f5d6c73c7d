package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/pagination"
	"igen/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the entity-wise report.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type reportQuery struct {
	StartDate         string `form:"start_date" binding:"required"`
	EndDate           string `form:"end_date" binding:"required"`
	EntityID          string `form:"entity_id" binding:"required"`
	CostCentreID      string `form:"cost_centre_id"`
	TransactionTypeID string `form:"transaction_type_id"`
	MinAmount         string `form:"min_amount"`
	MaxAmount         string `form:"max_amount"`
}

// bindReportFilter reads the report filter from the query string.
func bindReportFilter(c *gin.Context) (services.ReportFilter, error) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return services.ReportFilter{}, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"start_date, end_date and entity_id are required.")
	}

	start, err := parseDate(q.StartDate)
	if err != nil {
		return services.ReportFilter{}, err
	}
	end, err := parseDate(q.EndDate)
	if err != nil {
		return services.ReportFilter{}, err
	}
	filter := services.ReportFilter{
		StartDate:         *start,
		EndDate:           *end,
		EntityID:          q.EntityID,
		CostCentreID:      q.CostCentreID,
		TransactionTypeID: q.TransactionTypeID,
	}
	if filter.MinAmount, err = parseDecimal(q.MinAmount, "min_amount"); err != nil {
		return services.ReportFilter{}, err
	}
	if filter.MaxAmount, err = parseDecimal(q.MaxAmount, "max_amount"); err != nil {
		return services.ReportFilter{}, err
	}
	return filter, nil
}

// EntityReport lists active classifications of an entity
// @Summary     Entity-wise report
// @Description Active classifications of an entity in a date range. Debits are negative.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       start_date          query string true  "YYYY-MM-DD"
// @Param       end_date            query string true  "YYYY-MM-DD"
// @Param       entity_id           query string true  "Entity ID"
// @Param       cost_centre_id      query string false "Cost centre ID"
// @Param       transaction_type_id query string false "Transaction type ID"
// @Param       min_amount          query string false "Minimum signed amount"
// @Param       max_amount          query string false "Maximum signed amount"
// @Param       page                query int    false "Page number"
// @Param       page_size           query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[services.ReportRow]
// @Failure     400 {object} ErrorResponse "Invalid filters"
// @Router      /reports/entity-report [get]
func (h *ReportHandler) EntityReport(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := bindReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.reportService.EntityReport(c.Request.Context(), scope, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Summary totals the entity-wise report
// @Summary     Entity-wise report summary
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       start_date          query string true  "YYYY-MM-DD"
// @Param       end_date            query string true  "YYYY-MM-DD"
// @Param       entity_id           query string true  "Entity ID"
// @Param       cost_centre_id      query string false "Cost centre ID"
// @Param       transaction_type_id query string false "Transaction type ID"
// @Success     200 {object} services.ReportSummary
// @Failure     400 {object} ErrorResponse "Invalid filters"
// @Router      /reports/entity-report/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := bindReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), scope, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export downloads the entity-wise report as a workbook
// @Summary     Export entity-wise report
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       start_date query string true "YYYY-MM-DD"
// @Param       end_date   query string true "YYYY-MM-DD"
// @Param       entity_id  query string true "Entity ID"
// @Success     200 {file} file "XLSX workbook"
// @Success     204 "No data to export"
// @Failure     400 {object} ErrorResponse "Invalid filters"
// @Router      /reports/entity-report/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := bindReportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	name, err := h.reportService.Export(c.Request.Context(), scope, filter, &buf)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNoReportData.Code {
			c.Status(http.StatusNoContent)
			return
		}
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
