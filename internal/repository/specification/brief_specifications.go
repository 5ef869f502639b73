package specification

import (
	"ai-briefbuilder-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthoredBy struct {
	AuthorID uuid.UUID
}

func (s AuthoredBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("author_id = ?", s.AuthorID)
}

type ByProductID struct {
	ProductID uuid.UUID
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id = ?", s.ProductID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return scope.ExcludeArchived(db)
}
