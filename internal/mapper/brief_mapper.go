package mapper

import (
	"encoding/json"
	"time"

	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/model"
	"ai-briefbuilder-be/pkg/store"

	"gorm.io/datatypes"
)

type BriefMapper struct{}

func NewBriefMapper() *BriefMapper {
	return &BriefMapper{}
}

func (m *BriefMapper) ToEntity(b *model.Brief) *entity.Brief {
	if b == nil {
		return nil
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	out := &entity.Brief{
		Id:                b.Id,
		AuthorId:          b.AuthorId,
		Title:             b.Title,
		ProductId:         b.ProductId,
		CustomProductName: b.CustomProductName,
		ProductName:       b.ProductName,
		ProductCategory:   b.ProductCategory,
		CurrentStep:       b.CurrentStep,
		Status:            b.Status,
		SelectedInsightId: b.SelectedInsightId,
		DocumentVersion:   b.DocumentVersion,
		Boundary:          b.Boundary,
		CompletedAt:       b.CompletedAt,
		ArchivedAt:        b.ArchivedAt,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         updatedAt,
	}

	// Unreadable JSON columns load as absent rather than failing the whole record.
	if len(b.Document) > 0 {
		var doc store.SourceDocument
		if json.Unmarshal(b.Document, &doc) == nil {
			out.Document = &doc
		}
	}
	if len(b.Insights) > 0 {
		_ = json.Unmarshal(b.Insights, &out.Insights)
	}
	if len(b.Strategy) > 0 {
		var st store.Strategy
		if json.Unmarshal(b.Strategy, &st) == nil {
			out.Strategy = &st
		}
	}
	if len(b.FinalDocument) > 0 {
		var fd store.FinalDocument
		if json.Unmarshal(b.FinalDocument, &fd) == nil {
			out.FinalDocument = &fd
		}
	}
	if len(b.Snapshot) > 0 {
		var snap store.Snapshot
		if json.Unmarshal(b.Snapshot, &snap) == nil {
			out.Snapshot = &snap
		}
	}

	return out
}

func (m *BriefMapper) ToModel(b *entity.Brief) *model.Brief {
	if b == nil {
		return nil
	}

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	return &model.Brief{
		Id:                b.Id,
		AuthorId:          b.AuthorId,
		Title:             b.Title,
		ProductId:         b.ProductId,
		CustomProductName: b.CustomProductName,
		ProductName:       b.ProductName,
		ProductCategory:   b.ProductCategory,
		CurrentStep:       b.CurrentStep,
		Status:            b.Status,
		Document:          toJSON(b.Document),
		Insights:          toJSON(b.Insights),
		SelectedInsightId: b.SelectedInsightId,
		Strategy:          toJSON(b.Strategy),
		FinalDocument:     toJSON(b.FinalDocument),
		DocumentVersion:   b.DocumentVersion,
		Boundary:          b.Boundary,
		Snapshot:          toJSON(b.Snapshot),
		CompletedAt:       b.CompletedAt,
		ArchivedAt:        b.ArchivedAt,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *BriefMapper) ToEntities(briefs []*model.Brief) []*entity.Brief {
	entities := make([]*entity.Brief, len(briefs))
	for i, b := range briefs {
		entities[i] = m.ToEntity(b)
	}
	return entities
}

// ToColumns turns a patch into a column map for Updates. A nil value writes NULL.
func (m *BriefMapper) ToColumns(p entity.BriefPatch) map[string]interface{} {
	cols := make(map[string]interface{})

	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.CurrentStep != nil {
		cols["current_step"] = *p.CurrentStep
	}
	if p.Product != nil {
		if p.Product.CatalogID != nil {
			cols["product_id"] = *p.Product.CatalogID
		} else {
			cols["product_id"] = nil
		}
		cols["custom_product_name"] = p.Product.CustomName
		cols["product_name"] = p.Product.Name
		cols["product_category"] = p.Product.Category
	}
	if p.Document != nil {
		cols["document"] = toJSON(p.Document)
	}
	if p.Insights != nil {
		cols["insights"] = toJSON(*p.Insights)
	}
	if p.SelectedInsightId != nil {
		cols["selected_insight_id"] = *p.SelectedInsightId
	} else if p.ClearSelectedInsight {
		cols["selected_insight_id"] = nil
	}
	if p.Strategy != nil {
		cols["strategy"] = toJSON(p.Strategy)
	}
	if p.FinalDocument != nil {
		cols["final_document"] = toJSON(p.FinalDocument)
	} else if p.ClearFinalDocument {
		cols["final_document"] = nil
	}
	if p.DocumentVersion != nil {
		cols["document_version"] = *p.DocumentVersion
	}
	if p.Boundary != nil {
		cols["boundary"] = *p.Boundary
	}
	if p.Snapshot != nil {
		cols["snapshot"] = toJSON(p.Snapshot)
	} else if p.ClearSnapshot {
		cols["snapshot"] = nil
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.CompletedAt != nil {
		cols["completed_at"] = *p.CompletedAt
	}
	if p.ArchivedAt != nil {
		cols["archived_at"] = *p.ArchivedAt
	}

	return cols
}

func toJSON(v interface{}) datatypes.JSON {
	switch t := v.(type) {
	case *store.SourceDocument:
		if t == nil {
			return nil
		}
	case *store.Strategy:
		if t == nil {
			return nil
		}
	case *store.FinalDocument:
		if t == nil {
			return nil
		}
	case *store.Snapshot:
		if t == nil {
			return nil
		}
	case []store.Insight:
		if t == nil {
			return nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
