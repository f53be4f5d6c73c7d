package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/pagination"
	"igen/internal/services"
)

// ClassificationHandler handles the classification ledger.
type ClassificationHandler struct {
	classificationService services.ClassificationServicer
	auditService          services.AuditServicer
}

// NewClassificationHandler creates a new ClassificationHandler.
func NewClassificationHandler(classificationService services.ClassificationServicer, auditService services.AuditServicer) *ClassificationHandler {
	return &ClassificationHandler{classificationService: classificationService, auditService: auditService}
}

// MetadataRequest is what an amount is booked against.
type MetadataRequest struct {
	TransactionTypeID string  `json:"transaction_type_id" binding:"required,uuid"`
	CostCentreID      string  `json:"cost_centre_id" binding:"required,uuid"`
	EntityID          string  `json:"entity_id" binding:"required,uuid"`
	AssetID           *string `json:"asset_id" binding:"omitempty,uuid"`
	ContractID        *string `json:"contract_id" binding:"omitempty,uuid"`
	ValueDate         string  `json:"value_date" example:"2025-01-31"`
	Remarks           string  `json:"remarks" binding:"max=2000"`
}

// AllocationRequest books an amount against metadata.
type AllocationRequest struct {
	MetadataRequest
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"1250.00"`
}

// ClassifyRequest classifies a whole bank transaction.
type ClassifyRequest struct {
	BankTransactionID string `json:"bank_transaction_id" binding:"required,uuid"`
	AllocationRequest
}

// SplitRequest divides a bank transaction across rows.
type SplitRequest struct {
	BankTransactionID string              `json:"bank_transaction_id" binding:"required,uuid"`
	Rows              []AllocationRequest `json:"rows" binding:"required,min=1,dive"`
}

// ResplitRequest divides one active classification across rows.
type ResplitRequest struct {
	ClassificationID string              `json:"classification_id" binding:"required,uuid"`
	Rows             []AllocationRequest `json:"rows" binding:"required,min=1,dive"`
}

// ReclassifyRequest replaces the metadata of one active classification.
type ReclassifyRequest struct {
	ClassificationID string `json:"classification_id" binding:"required,uuid"`
	MetadataRequest
}

// ClassificationCreatedResponse is returned by classify and reclassify.
type ClassificationCreatedResponse struct {
	ClassificationID string    `json:"classification_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// SplitCreatedResponse is returned by split and resplit.
type SplitCreatedResponse struct {
	ChildrenCount     int      `json:"children_count"`
	ClassificationIDs []string `json:"classification_ids"`
}

type ledgerQuery struct {
	BankAccountID    string `form:"bank_account_id" binding:"required"`
	StartDate        string `form:"start_date"`
	EndDate          string `form:"end_date"`
	MinAmount        string `form:"min_amount"`
	MaxAmount        string `form:"max_amount"`
	Type             string `form:"type" binding:"omitempty,txn_direction_filter"`
	UnclassifiedOnly *bool  `form:"unclassified_only"`
	ClassifiedOnly   bool   `form:"classified_only"`
	IncludeChildren  bool   `form:"include_children"`
	FlattenSplits    bool   `form:"flatten_splits"`
	pagination.Window
}

func (m MetadataRequest) toMetadata() (services.Metadata, error) {
	valueDate, err := parseDate(m.ValueDate)
	if err != nil {
		return services.Metadata{}, err
	}
	return services.Metadata{
		TransactionTypeID: m.TransactionTypeID,
		CostCentreID:      m.CostCentreID,
		EntityID:          m.EntityID,
		AssetID:           derefID(m.AssetID),
		ContractID:        derefID(m.ContractID),
		ValueDate:         valueDate,
		Remarks:           m.Remarks,
	}, nil
}

func derefID(id *string) *string {
	if id == nil {
		return nil
	}
	return optionalID(*id)
}

func toAllocations(rows []AllocationRequest) ([]services.Allocation, error) {
	out := make([]services.Allocation, 0, len(rows))
	for _, r := range rows {
		meta, err := r.toMetadata()
		if err != nil {
			return nil, err
		}
		out = append(out, services.Allocation{Metadata: meta, Amount: r.Amount})
	}
	return out, nil
}

func splitResponse(rows []models.Classification) SplitCreatedResponse {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return SplitCreatedResponse{ChildrenCount: len(rows), ClassificationIDs: ids}
}

// ListLedger lists bank transactions with their classification state
// @Summary     Classification listing
// @Description Bank transactions of an account with active classification counts and status
// @Tags        tx-classify
// @Produce     json
// @Security    BearerAuth
// @Param       bank_account_id   query string true  "Bank account ID"
// @Param       start_date        query string false "YYYY-MM-DD"
// @Param       end_date          query string false "YYYY-MM-DD"
// @Param       min_amount        query string false "Minimum absolute amount"
// @Param       max_amount        query string false "Maximum absolute amount"
// @Param       type              query string false "credit, debit or both"
// @Param       unclassified_only query bool   false "Only unclassified rows (default true)"
// @Param       classified_only   query bool   false "Only classified rows"
// @Param       include_children  query bool   false "Attach active classifications"
// @Param       flatten_splits    query bool   false "One row per active split child"
// @Param       limit             query int    false "1..500, default 200"
// @Param       offset            query int    false "Offset"
// @Success     200 {object} services.LedgerPage
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /tx-classify/unclassified [get]
func (h *ClassificationHandler) ListLedger(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ledgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// unclassified_only defaults to true unless classified_only is asked for
	filter := services.LedgerFilter{
		BankAccountID:    q.BankAccountID,
		Direction:        q.Type,
		UnclassifiedOnly: !q.ClassifiedOnly,
		ClassifiedOnly:   q.ClassifiedOnly,
		IncludeChildren:  q.IncludeChildren,
		FlattenSplits:    q.FlattenSplits,
		Window:           q.Window,
	}
	if q.UnclassifiedOnly != nil {
		filter.UnclassifiedOnly = *q.UnclassifiedOnly
	}
	if filter.StartDate, err = parseDate(q.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.EndDate, err = parseDate(q.EndDate); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.MinAmount, err = parseDecimal(q.MinAmount, "min_amount"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.MaxAmount, err = parseDecimal(q.MaxAmount, "max_amount"); err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.classificationService.List(c.Request.Context(), scope, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// History lists every classification of a bank transaction
// @Summary     Classification history
// @Description Active and superseded classifications of a bank transaction, oldest first
// @Tags        tx-classify
// @Produce     json
// @Security    BearerAuth
// @Param       bank_transaction_id path string true "Bank transaction ID"
// @Success     200 {array} services.ClassificationView
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /tx-classify/history/{bank_transaction_id} [get]
func (h *ClassificationHandler) History(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	views, err := h.classificationService.History(c.Request.Context(), scope, c.Param("bank_transaction_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Classify books a whole bank transaction against one set of metadata
// @Summary     Classify a transaction
// @Tags        tx-classify
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClassifyRequest true "Classification"
// @Success     201 {object} ClassificationCreatedResponse
// @Failure     400 {object} ErrorResponse "Ledger rule violated"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /tx-classify/classify [post]
func (h *ClassificationHandler) Classify(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	meta, err := req.toMetadata()
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.classificationService.Classify(c.Request.Context(), scope, services.ClassifyRequest{
		BankTransactionID: req.BankTransactionID,
		Allocation:        services.Allocation{Metadata: meta, Amount: req.Amount},
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, "CLASSIFY", "bank_transaction", req.BankTransactionID, c.ClientIP(),
		map[string]any{"classification_id": row.ID, "amount": row.Amount.StringFixed(2)})

	c.JSON(http.StatusCreated, ClassificationCreatedResponse{ClassificationID: row.ID, CreatedAt: row.CreatedAt})
}

// Split divides a bank transaction across several classifications
// @Summary     Split a transaction
// @Tags        tx-classify
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SplitRequest true "Split rows"
// @Success     201 {object} SplitCreatedResponse
// @Failure     400 {object} ErrorResponse "Ledger rule violated"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /tx-classify/split [post]
func (h *ClassificationHandler) Split(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	rows, err := toAllocations(req.Rows)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.classificationService.Split(c.Request.Context(), scope, services.SplitRequest{
		BankTransactionID: req.BankTransactionID,
		Rows:              rows,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := splitResponse(created)
	h.auditService.Log(scope.UserID, "SPLIT", "bank_transaction", req.BankTransactionID, c.ClientIP(),
		map[string]any{"classification_ids": resp.ClassificationIDs})

	c.JSON(http.StatusCreated, resp)
}

// Resplit divides one active classification into several
// @Summary     Re-split a classification
// @Description Only the targeted classification is superseded; its siblings stay active
// @Tags        tx-classify
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ResplitRequest true "Re-split rows"
// @Success     201 {object} SplitCreatedResponse
// @Failure     400 {object} ErrorResponse "Ledger rule violated"
// @Failure     404 {object} ErrorResponse "Classification not found"
// @Router      /tx-classify/resplit [post]
func (h *ClassificationHandler) Resplit(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ResplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	rows, err := toAllocations(req.Rows)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.classificationService.Resplit(c.Request.Context(), scope, services.ResplitRequest{
		ClassificationID: req.ClassificationID,
		Rows:             rows,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := splitResponse(created)
	h.auditService.Log(scope.UserID, "RESPLIT", "classification", req.ClassificationID, c.ClientIP(),
		map[string]any{"classification_ids": resp.ClassificationIDs})

	c.JSON(http.StatusCreated, resp)
}

// Reclassify replaces the metadata of one active classification
// @Summary     Re-classify a classification
// @Tags        tx-classify
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReclassifyRequest true "New metadata"
// @Success     201 {object} ClassificationCreatedResponse
// @Failure     400 {object} ErrorResponse "Ledger rule violated"
// @Failure     404 {object} ErrorResponse "Classification not found"
// @Router      /tx-classify/reclassify [post]
func (h *ClassificationHandler) Reclassify(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReclassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	meta, err := req.toMetadata()
	if err != nil {
		respondWithError(c, err)
		return
	}

	row, err := h.classificationService.Reclassify(c.Request.Context(), scope, services.ReclassifyRequest{
		ClassificationID: req.ClassificationID,
		Metadata:         meta,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, "RECLASSIFY", "classification", req.ClassificationID, c.ClientIP(),
		map[string]any{"classification_id": row.ID})

	c.JSON(http.StatusCreated, ClassificationCreatedResponse{ClassificationID: row.ID, CreatedAt: row.CreatedAt})
}
