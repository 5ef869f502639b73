package dto

import (
	"time"

	"ai-briefbuilder-be/pkg/savestatus"
	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
)

const (
	PersistenceEnabled  = "enabled"
	PersistenceDisabled = "disabled"
)

type SelectProductRequest struct {
	ProductId         *uuid.UUID `json:"product_id"`
	CustomProductName string     `json:"custom_product_name" validate:"max=255"`
	Title             string     `json:"title" validate:"max=255"`
}

type AttachDocumentRequest struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	FileType string `json:"file_type" validate:"required,max=100"`
	FileSize int64  `json:"file_size" validate:"gte=0"`
	// RawText is the text already extracted from the file by the client.
	RawText string `json:"raw_text" validate:"required"`
}

type SelectInsightRequest struct {
	InsightId int `json:"insight_id" validate:"required,gte=1"`
}

type StrategySectionRequest struct {
	Title   string `json:"title" validate:"required"`
	Purpose string `json:"purpose"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

type SetStrategyRequest struct {
	Essence  string                   `json:"essence"`
	Unlock   string                   `json:"unlock"`
	Sections []StrategySectionRequest `json:"sections" validate:"dive"`
}

type EditFinalDocumentRequest struct {
	FinalDocument store.FinalDocument `json:"final_document"`
}

type NavigateRequest struct {
	Step string `json:"step" validate:"required"`
}

type DecisionRequest struct {
	Choice string `json:"choice" validate:"required,oneof=keep regenerate branch"`
}

type StepState struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Reachable bool   `json:"reachable"`
}

type DocumentSummary struct {
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
	CharCount  int       `json:"char_count"`
}

type DraftResponse struct {
	Key               uuid.UUID            `json:"key"`
	BriefId           *uuid.UUID           `json:"brief_id,omitempty"`
	Title             string               `json:"title"`
	Step              string               `json:"step"`
	Steps             []StepState          `json:"steps"`
	Status            string               `json:"status"`
	Product           *store.Product       `json:"product,omitempty"`
	Document          *DocumentSummary     `json:"document,omitempty"`
	InsightCandidates []store.Insight      `json:"insight_candidates"`
	SelectedInsightId *int                 `json:"selected_insight_id,omitempty"`
	DisplayInsight    *store.Insight       `json:"display_insight,omitempty"`
	Strategy          *store.Strategy      `json:"strategy,omitempty"`
	FinalDocument     *store.FinalDocument `json:"final_document,omitempty"`
	// FinalDocumentWithheld is set when a stored document has no insight selection behind it.
	FinalDocumentWithheld bool               `json:"final_document_withheld,omitempty"`
	DocumentVersion       int                `json:"document_version"`
	Boundary              string             `json:"boundary"`
	BranchAvailable       bool               `json:"branch_available"`
	CompletedAt           *time.Time         `json:"completed_at,omitempty"`
	Persistence           string             `json:"persistence"`
	SaveStatus            *savestatus.Status `json:"save_status,omitempty"`
}

type DecisionResponse struct {
	Draft *DraftResponse `json:"draft"`
	// Branch is the new draft carrying the edited inputs, set only for "branch".
	Branch *DraftResponse `json:"branch,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Persistence string `json:"persistence"`
	StoreError  string `json:"store_error,omitempty"`
}
