package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Brief is one authoring session. Authored content lives in JSON columns.
type Brief struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AuthorId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title             string         `gorm:"type:varchar(255);not null"`
	ProductId         *uuid.UUID     `gorm:"type:uuid;index"`
	CustomProductName string         `gorm:"type:varchar(255)"`
	ProductName       string         `gorm:"type:varchar(255)"`
	ProductCategory   string         `gorm:"type:varchar(100)"`
	CurrentStep       string         `gorm:"type:varchar(20)"`
	Status            string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	Document          datatypes.JSON `gorm:"type:jsonb"`
	Insights          datatypes.JSON `gorm:"type:jsonb"`
	SelectedInsightId *int
	Strategy          datatypes.JSON `gorm:"type:jsonb"`
	FinalDocument     datatypes.JSON `gorm:"type:jsonb"`
	DocumentVersion   int            `gorm:"not null;default:0"`
	Boundary          string         `gorm:"type:varchar(20)"`
	Snapshot          datatypes.JSON `gorm:"type:jsonb"`
	CompletedAt       *time.Time
	ArchivedAt        *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Brief) TableName() string {
	return "briefs"
}
