package scope

import "gorm.io/gorm"

// OrderByUpdatedDesc puts the most recently touched rows first, newest creation breaking ties.
func OrderByUpdatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC").Order("created_at DESC")
}
