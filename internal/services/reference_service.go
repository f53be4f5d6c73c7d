package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "igen/internal/errors"
	"igen/internal/models"
)

// referenceService serves companies and the reference data classifications point at.
type referenceService struct {
	db *gorm.DB
}

// NewReferenceService creates a new ReferenceServicer.
func NewReferenceService(db *gorm.DB) ReferenceServicer {
	return &referenceService{db: db}
}

// CreateCompany registers a company
func (s *referenceService) CreateCompany(name, code string) (*models.Company, error) {
	name, code = strings.TrimSpace(name), strings.ToUpper(strings.TrimSpace(code))
	if name == "" || code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and code are required")
	}

	var count int64
	if err := s.db.Model(&models.Company{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a company with this code already exists")
	}

	company := &models.Company{Name: name, Code: code, IsActive: true}
	if err := s.db.Create(company).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return company, nil
}

// ListCompanies returns the companies visible to the scope
func (s *referenceService) ListCompanies(scope Scope) ([]models.Company, error) {
	var companies []models.Company
	if err := s.db.Scopes(scope.companyFilter("id")).Order("name ASC").Find(&companies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return companies, nil
}

// List returns the rows of one reference kind, optionally narrowed to a company
func (s *referenceService) List(scope Scope, kind ReferenceKind, companyID string) (any, error) {
	if companyID != "" && !scope.AllowsCompany(companyID) {
		return nil, apperrors.ErrCompanyNotFound
	}

	q := s.db.Scopes(scope.companyFilter("company_id")).Order("created_at ASC")
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}

	var out any
	switch kind {
	case KindCostCentres:
		out = &[]models.CostCentre{}
	case KindTransactionTypes:
		out = &[]models.TransactionType{}
	case KindEntities:
		out = &[]models.Entity{}
	case KindAssets:
		out = &[]models.Asset{}
	case KindContracts:
		out = &[]models.Contract{}
	default:
		return nil, apperrors.ErrUnknownReferenceKind
	}
	err := q.Find(out).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return out, nil
}

// Create adds one reference row for a company in scope
func (s *referenceService) Create(scope Scope, kind ReferenceKind, req CreateReferenceRequest) (any, error) {
	if !scope.AllowsCompany(req.CompanyID) {
		return nil, apperrors.ErrCompanyNotFound
	}
	if err := s.db.First(&models.Company{}, "id = ?", req.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	name := strings.TrimSpace(req.Name)
	var row any
	switch kind {
	case KindCostCentres:
		direction := req.Direction
		if direction == "" {
			direction = models.DirectionBoth
		}
		row = &models.CostCentre{CompanyID: req.CompanyID, Name: name, TransactionDirection: direction, IsActive: true}
	case KindTransactionTypes:
		direction := req.Direction
		if direction != models.DirectionCredit && direction != models.DirectionDebit {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be Credit or Debit")
		}
		tt := &models.TransactionType{CompanyID: req.CompanyID, Name: name, Direction: direction, Status: models.StatusActive}
		if req.CostCentreID != "" {
			if err := s.requireOwned(&models.CostCentre{}, req.CostCentreID, req.CompanyID); err != nil {
				return nil, err
			}
			tt.CostCentreID = &req.CostCentreID
		}
		row = tt
	case KindEntities:
		entityType := req.EntityType
		if entityType == "" {
			entityType = models.EntityTypeProperty
		}
		row = &models.Entity{CompanyID: req.CompanyID, Name: name, EntityType: entityType, Status: models.StatusActive}
	case KindAssets:
		row = &models.Asset{CompanyID: req.CompanyID, Name: name, Category: req.Category, TagID: req.TagID, IsActive: true}
	case KindContracts:
		if err := s.requireOwned(&models.CostCentre{}, req.CostCentreID, req.CompanyID); err != nil {
			return nil, err
		}
		if err := s.requireOwned(&models.Entity{}, req.EntityID, req.CompanyID); err != nil {
			return nil, err
		}
		vendor := strings.TrimSpace(req.VendorName)
		if vendor == "" {
			vendor = name
		}
		name = vendor
		row = &models.Contract{
			CompanyID:    req.CompanyID,
			CostCentreID: req.CostCentreID,
			EntityID:     req.EntityID,
			VendorName:   vendor,
			Description:  req.Description,
			IsActive:     true,
		}
	default:
		return nil, apperrors.ErrUnknownReferenceKind
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	if err := s.db.Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// requireOwned checks that a reference row exists and belongs to companyID.
func (s *referenceService) requireOwned(model any, id, companyID string) error {
	if id == "" {
		return apperrors.ErrInvalidReference
	}
	var count int64
	if err := s.db.Model(model).Where("id = ? AND company_id = ?", id, companyID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrInvalidReference
	}
	return nil
}
