package dto

import (
	"time"

	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
)

type ListBriefsRequest struct {
	ProductId       string `query:"product_id" validate:"omitempty,uuid"`
	Status          string `query:"status" validate:"omitempty,oneof=draft complete archived"`
	IncludeArchived bool   `query:"include_archived"`
	Page            int    `query:"page" validate:"omitempty,min=1"`
	PageSize        int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type BriefSummaryResponse struct {
	Id               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	ProductName      string     `json:"product_name"`
	ProductCategory  string     `json:"product_category,omitempty"`
	Status           string     `json:"status"`
	CurrentStep      string     `json:"current_step"`
	HasFinalDocument bool       `json:"has_final_document"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type ListBriefsResponse struct {
	Items    []*BriefSummaryResponse `json:"items"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type ShowBriefResponse struct {
	Id                    uuid.UUID            `json:"id"`
	Title                 string               `json:"title"`
	Product               *store.Product       `json:"product,omitempty"`
	Status                string               `json:"status"`
	CurrentStep           string               `json:"current_step"`
	Document              *DocumentSummary     `json:"document,omitempty"`
	Insights              []store.Insight      `json:"insights"`
	SelectedInsightId     *int                 `json:"selected_insight_id,omitempty"`
	DisplayInsight        *store.Insight       `json:"display_insight,omitempty"`
	Strategy              *store.Strategy      `json:"strategy,omitempty"`
	FinalDocument         *store.FinalDocument `json:"final_document,omitempty"`
	FinalDocumentWithheld bool                 `json:"final_document_withheld,omitempty"`
	CompletedAt           *time.Time           `json:"completed_at,omitempty"`
	ArchivedAt            *time.Time           `json:"archived_at,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             *time.Time           `json:"updated_at"`
}

type DuplicateBriefResponse struct {
	Id       uuid.UUID `json:"id"`
	SourceId uuid.UUID `json:"source_id"`
	Title    string    `json:"title"`
}
