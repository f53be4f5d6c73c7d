package models

// Direction describes which side of a bank transaction a reference applies to.
type Direction string

const (
	DirectionCredit Direction = "Credit"
	DirectionDebit  Direction = "Debit"
	DirectionBoth   Direction = "Both"
)

// EntityType classifies the entity a transaction is booked against.
type EntityType string

const (
	EntityTypeProperty EntityType = "Property"
	EntityTypeProject  EntityType = "Project"
	EntityTypeInternal EntityType = "Internal"
)

// ReferenceStatus is the lifecycle state of status-carrying reference rows.
type ReferenceStatus string

const (
	StatusActive   ReferenceStatus = "Active"
	StatusInactive ReferenceStatus = "Inactive"
)

// CostCentre groups transaction types within a company.
type CostCentre struct {
	Base
	CompanyID            string    `gorm:"type:uuid;not null;index" json:"company_id"`
	Name                 string    `gorm:"size:255;not null" json:"name"`
	TransactionDirection Direction `gorm:"size:10;not null" json:"transaction_direction"`
	IsActive             bool      `gorm:"not null" json:"is_active"`
}

// TransactionType is the accounting head a classification is booked to.
type TransactionType struct {
	Base
	CompanyID    string          `gorm:"type:uuid;not null;index" json:"company_id"`
	CostCentreID *string         `gorm:"type:uuid;index" json:"cost_centre_id,omitempty"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Direction    Direction       `gorm:"size:10;not null" json:"direction"`
	Status       ReferenceStatus `gorm:"size:10;not null" json:"status"`
}

// Entity is a property, project or internal unit.
type Entity struct {
	Base
	CompanyID  string          `gorm:"type:uuid;not null;index" json:"company_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	EntityType EntityType      `gorm:"size:16;not null" json:"entity_type"`
	Status     ReferenceStatus `gorm:"size:10;not null" json:"status"`
}

// Asset is an optional fixed asset a classification can point at.
type Asset struct {
	Base
	CompanyID string `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Category  string `gorm:"size:100" json:"category"`
	TagID     string `gorm:"size:100" json:"tag_id"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
}

// Contract is an optional vendor contract a classification can point at.
type Contract struct {
	Base
	CompanyID    string `gorm:"type:uuid;not null;index" json:"company_id"`
	CostCentreID string `gorm:"type:uuid;not null" json:"cost_centre_id"`
	EntityID     string `gorm:"type:uuid;not null" json:"entity_id"`
	VendorName   string `gorm:"size:255;not null" json:"vendor_name"`
	Description  string `gorm:"type:text" json:"description"`
	IsActive     bool   `gorm:"not null" json:"is_active"`
}
