package models

import "time"

// Role is a user's access level.
type Role string

const (
	RoleSuperUser       Role = "SUPER_USER"
	RoleCenterHead      Role = "CENTER_HEAD"
	RoleAccountant      Role = "ACCOUNTANT"
	RolePropertyManager Role = "PROPERTY_MANAGER"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleSuperUser, RoleCenterHead, RoleAccountant, RolePropertyManager}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// User represents the user model in the database
type User struct {
	Base
	UserID              string     `gorm:"column:user_id;size:150;uniqueIndex;not null" json:"user_id"`
	Password            string     `gorm:"not null" json:"-"`
	FullName            string     `gorm:"size:255" json:"full_name"`
	Role                Role       `gorm:"size:20;not null" json:"role"`
	IsActive            bool       `gorm:"not null" json:"is_active"`
	IsDeleted           bool       `gorm:"not null;index" json:"-"`
	DeletedAt           *time.Time `json:"-"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"not null" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Companies           []Company  `gorm:"many2many:user_companies" json:"companies,omitempty"`
}

// CompanyIDs returns the ids of the companies the user is assigned to.
func (u *User) CompanyIDs() []string {
	ids := make([]string, 0, len(u.Companies))
	for _, c := range u.Companies {
		ids = append(ids, c.ID)
	}
	return ids
}

// DisplayName is the full name, falling back to the login id.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.UserID
}
