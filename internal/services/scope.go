package services

import (
	"gorm.io/gorm"

	"igen/internal/models"
)

// Scope is the caller identity every query is filtered by. A super user sees
// every company; everyone else sees only the companies they are assigned to.
type Scope struct {
	UserID     string
	Role       models.Role
	CompanyIDs []string
}

// SystemScope is used by trusted callers such as the ingestion pipeline.
func SystemScope() Scope {
	return Scope{Role: models.RoleSuperUser}
}

// IsSuper reports whether the scope is unrestricted.
func (s Scope) IsSuper() bool {
	return s.Role == models.RoleSuperUser
}

// AllowsCompany reports whether companyID is visible to the scope.
func (s Scope) AllowsCompany(companyID string) bool {
	if s.IsSuper() {
		return true
	}
	for _, id := range s.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

// uploaderID is the user id recorded on batches, nil for system callers.
func (s Scope) uploaderID() *string {
	if s.UserID == "" {
		return nil
	}
	id := s.UserID
	return &id
}

// companyFilter returns a scope restricting column to the visible companies.
func (s Scope) companyFilter(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.IsSuper() {
			return db
		}
		if len(s.CompanyIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", s.CompanyIDs)
	}
}

// bankAccountFilter restricts a bank_account_id column to accounts of visible companies.
func (s Scope) bankAccountFilter(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.IsSuper() {
			return db
		}
		if len(s.CompanyIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&models.BankAccount{}).
				Select("id").Where("company_id IN ?", s.CompanyIDs))
	}
}
