package models

// Company is the tenant boundary. Every piece of reference data and every
// bank account belongs to exactly one company.
type Company struct {
	Base
	Name     string `gorm:"size:255;not null" json:"name"`
	Code     string `gorm:"size:32;uniqueIndex;not null" json:"code"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

// BankAccount is a company bank account that statements are uploaded against.
type BankAccount struct {
	Base
	CompanyID     string   `gorm:"type:uuid;not null;index" json:"company_id"`
	Company       *Company `json:"company,omitempty"`
	AccountName   string   `gorm:"size:255;not null" json:"account_name"`
	AccountNumber string   `gorm:"size:64;uniqueIndex;not null" json:"account_number"`
	BankName      string   `gorm:"size:255" json:"bank_name"`
	IFSC          string   `gorm:"column:ifsc;size:32" json:"ifsc"`
	IsActive      bool     `gorm:"not null" json:"is_active"`
}
