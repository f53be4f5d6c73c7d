package models

import "gorm.io/datatypes"

// AuditLog records sensitive user operations for security and compliance.
type AuditLog struct {
	Base
	UserID       *string        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action       string         `gorm:"size:64;not null" json:"action"`
	ResourceType string         `gorm:"size:64;not null" json:"resource_type"`
	ResourceID   string         `gorm:"size:64" json:"resource_id"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
}
