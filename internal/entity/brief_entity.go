package entity

import (
	"sort"
	"time"

	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
)

type Brief struct {
	Id                uuid.UUID
	AuthorId          uuid.UUID
	Title             string
	ProductId         *uuid.UUID
	CustomProductName string
	ProductName       string
	ProductCategory   string
	CurrentStep       string
	Status            string
	Document          *store.SourceDocument
	Insights          []store.Insight
	SelectedInsightId *int
	Strategy          *store.Strategy
	FinalDocument     *store.FinalDocument
	DocumentVersion   int
	Boundary          string
	Snapshot          *store.Snapshot
	CompletedAt       *time.Time
	ArchivedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func (b *Brief) IsArchived() bool {
	return b.Status == string(store.StatusArchived)
}

// BriefPatch is a partial update. Only non-nil fields are written, plus the explicit Clear flags.
type BriefPatch struct {
	Title             *string               `json:"title,omitempty"`
	CurrentStep       *string               `json:"current_step,omitempty"`
	Product           *store.Product        `json:"product,omitempty"`
	Document          *store.SourceDocument `json:"document,omitempty"`
	Insights          *[]store.Insight      `json:"insights,omitempty"`
	SelectedInsightId *int                  `json:"selected_insight_id,omitempty"`
	Strategy          *store.Strategy       `json:"strategy,omitempty"`
	FinalDocument     *store.FinalDocument  `json:"final_document,omitempty"`
	DocumentVersion   *int                  `json:"document_version,omitempty"`
	Boundary          *string               `json:"boundary,omitempty"`
	Snapshot          *store.Snapshot       `json:"snapshot,omitempty"`
	Status            *string               `json:"status,omitempty"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	ArchivedAt        *time.Time            `json:"archived_at,omitempty"`

	// Explicit NULL writes, honoured only when the matching field above is nil.
	ClearSelectedInsight bool `json:"clear_selected_insight,omitempty"`
	ClearFinalDocument   bool `json:"clear_final_document,omitempty"`
	ClearSnapshot        bool `json:"clear_snapshot,omitempty"`
}

// Fields lists the columns the patch writes, sorted.
func (p BriefPatch) Fields() []string {
	fields := make([]string, 0, 15)
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(p.Title != nil, "title")
	add(p.CurrentStep != nil, "current_step")
	add(p.Product != nil, "product")
	add(p.Document != nil, "document")
	add(p.Insights != nil, "insights")
	add(p.SelectedInsightId != nil || p.ClearSelectedInsight, "selected_insight_id")
	add(p.Strategy != nil, "strategy")
	add(p.FinalDocument != nil || p.ClearFinalDocument, "final_document")
	add(p.DocumentVersion != nil, "document_version")
	add(p.Boundary != nil, "boundary")
	add(p.Snapshot != nil || p.ClearSnapshot, "snapshot")
	add(p.Status != nil, "status")
	add(p.CompletedAt != nil, "completed_at")
	add(p.ArchivedAt != nil, "archived_at")
	sort.Strings(fields)
	return fields
}

func (p BriefPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}
