package scope

import "gorm.io/gorm"

func ExcludeArchived(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", "archived")
}
