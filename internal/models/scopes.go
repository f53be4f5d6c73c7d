package models

import "gorm.io/gorm"

// NotDeleted restricts a query to rows whose is_deleted flag is false.
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// IncludeDeleted returns NotDeleted unless include is set.
func IncludeDeleted(include bool) func(*gorm.DB) *gorm.DB {
	if include {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return NotDeleted
}
