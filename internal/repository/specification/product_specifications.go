package specification

import "gorm.io/gorm"

// ByProductName matches a catalog product name case-insensitively.
type ByProductName struct {
	Name string
}

func (s ByProductName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(name) = LOWER(?)", s.Name)
}
