package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/models"
	"igen/internal/services"
)

// ReferenceHandler serves companies and reference data.
type ReferenceHandler struct {
	referenceService services.ReferenceServicer
	auditService     services.AuditServicer
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(referenceService services.ReferenceServicer, auditService services.AuditServicer) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, auditService: auditService}
}

// CreateCompanyRequest represents the request payload for creating a company.
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
	Code string `json:"code" binding:"required,min=1,max=32"`
}

type referenceKindURI struct {
	Kind string `uri:"kind" binding:"required,reference_kind"`
}

// CreateReferenceRequest is the union of the fields the reference kinds accept.
type CreateReferenceRequest struct {
	CompanyID    string `json:"company_id" binding:"required,uuid"`
	Name         string `json:"name" binding:"max=255"`
	Direction    string `json:"transaction_direction" binding:"omitempty,cost_centre_direction"`
	EntityType   string `json:"entity_type" binding:"omitempty,entity_type"`
	CostCentreID string `json:"cost_centre_id" binding:"omitempty,uuid"`
	EntityID     string `json:"entity_id" binding:"omitempty,uuid"`
	Category     string `json:"category" binding:"max=100"`
	TagID        string `json:"tag_id" binding:"max=64"`
	VendorName   string `json:"vendor_name" binding:"max=255"`
	Description  string `json:"description" binding:"max=1000"`
}

func bindKind(c *gin.Context) (services.ReferenceKind, error) {
	var uri referenceKindURI
	if err := c.ShouldBindUri(&uri); err != nil {
		return "", apperrors.ErrUnknownReferenceKind
	}
	return services.ReferenceKind(uri.Kind), nil
}

// CreateCompany creates a company
// @Summary     Create a company
// @Tags        companies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCompanyRequest true "Company details"
// @Success     201 {object} models.Company
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /companies [post]
func (h *ReferenceHandler) CreateCompany(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	company, err := h.referenceService.CreateCompany(req.Name, req.Code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_COMPANY", "company", company.ID, c.ClientIP(),
		map[string]any{"name": company.Name, "code": company.Code})

	c.JSON(http.StatusCreated, company)
}

// ListCompanies lists the companies visible to the caller
// @Summary     List companies
// @Tags        companies
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Company
// @Router      /companies [get]
func (h *ReferenceHandler) ListCompanies(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	companies, err := h.referenceService.ListCompanies(scope)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

// List returns reference rows of one kind
// @Summary     List reference data
// @Description List cost-centres, transaction-types, entities, assets or contracts, optionally for one company
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Param       kind       path  string true  "Reference kind"
// @Param       company_id query string false "Company ID"
// @Success     200 {array} object
// @Failure     404 {object} ErrorResponse "Unknown kind or company"
// @Router      /reference/{kind} [get]
func (h *ReferenceHandler) List(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.referenceService.List(scope, kind, c.Query("company_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Create adds a reference row
// @Summary     Create reference data
// @Description Create a row of the given reference kind (super users only)
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind    path string                 true "Reference kind"
// @Param       request body CreateReferenceRequest true "Reference row"
// @Success     201 {object} object
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Unknown kind or company"
// @Router      /reference/{kind} [post]
func (h *ReferenceHandler) Create(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind, err := bindKind(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	row, err := h.referenceService.Create(scope, kind, services.CreateReferenceRequest{
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		Direction:    models.Direction(req.Direction),
		EntityType:   models.EntityType(req.EntityType),
		CostCentreID: req.CostCentreID,
		EntityID:     req.EntityID,
		Category:     req.Category,
		TagID:        req.TagID,
		VendorName:   req.VendorName,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(scope.UserID, "CREATE_REFERENCE", string(kind), "", c.ClientIP(),
		map[string]any{"company_id": req.CompanyID, "name": req.Name})

	c.JSON(http.StatusCreated, row)
}
