package service

import (
	"time"
	"unicode/utf8"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/pkg/store"
	"ai-briefbuilder-be/pkg/wizard"

	"github.com/google/uuid"
)

// populatedPatch carries every field the session has locally and nothing else, so a
// partial local state never nulls out persisted data.
func populatedPatch(s *store.Session) entity.BriefPatch {
	step := s.Step.String()
	patch := entity.BriefPatch{CurrentStep: &step}

	if s.Title != "" {
		title := s.Title
		patch.Title = &title
	}
	if s.Product != nil {
		product := *s.Product
		patch.Product = &product
	}
	if s.SourceDocument != nil {
		doc := *s.SourceDocument
		patch.Document = &doc
	}
	if len(s.InsightCandidates) > 0 {
		insights := store.CloneInsights(s.InsightCandidates)
		patch.Insights = &insights
	}
	if s.SelectedInsightID != nil {
		id := *s.SelectedInsightID
		patch.SelectedInsightId = &id
	}
	if s.Strategy != nil {
		patch.Strategy = s.Strategy.Clone()
	}
	if s.FinalDocument != nil {
		patch.FinalDocument = s.FinalDocument.Clone()
	}
	if s.DocumentVersion > 0 {
		version := s.DocumentVersion
		patch.DocumentVersion = &version
	}
	if s.Boundary != "" {
		boundary := string(s.Boundary)
		patch.Boundary = &boundary
	}
	if s.Snapshot != nil {
		patch.Snapshot = s.Snapshot.Clone()
	} else {
		patch.ClearSnapshot = true
	}
	return patch
}

func productOf(b *entity.Brief) *store.Product {
	switch {
	case b.ProductId != nil && *b.ProductId != uuid.Nil:
		id := *b.ProductId
		return &store.Product{CatalogID: &id, Name: b.ProductName, Category: b.ProductCategory}
	case b.CustomProductName != "":
		return &store.Product{CustomName: b.CustomProductName, Name: b.CustomProductName, Category: b.ProductCategory}
	}
	return nil
}

func applyProduct(b *entity.Brief, p *store.Product) {
	if p == nil {
		return
	}
	if p.CatalogID != nil {
		id := *p.CatalogID
		b.ProductId = &id
	}
	b.CustomProductName = p.CustomName
	b.ProductName = p.Name
	b.ProductCategory = p.Category
}

// sessionFromBrief rebuilds a workspace from a stored record. Completion flags and the
// resume step are derived from what is populated; a stored pending decision survives.
func sessionFromBrief(b *entity.Brief) *store.Session {
	s := &store.Session{
		Key:               b.Id,
		ID:                b.Id,
		AuthorID:          b.AuthorId,
		Title:             b.Title,
		Product:           productOf(b),
		InsightCandidates: store.CloneInsights(b.Insights),
		Strategy:          b.Strategy.Clone(),
		FinalDocument:     b.FinalDocument.Clone(),
		DocumentVersion:   b.DocumentVersion,
		Status:            store.Status(b.Status),
		Snapshot:          b.Snapshot.Clone(),
	}
	if s.Status == "" {
		s.Status = store.StatusDraft
	}
	if b.Document != nil {
		doc := *b.Document
		s.SourceDocument = &doc
	}
	if b.SelectedInsightId != nil {
		s.SelectedInsightID = store.IntPtr(*b.SelectedInsightId)
	}
	if b.CompletedAt != nil {
		at := *b.CompletedAt
		s.CompletedAt = &at
	}
	if s.FinalDocument != nil && s.FinalDocument.Version > s.DocumentVersion {
		s.DocumentVersion = s.FinalDocument.Version
	}
	wizard.RestoreBoundary(s, store.BoundaryState(b.Boundary))

	wizard.CompletionFromData(s)
	s.Step = wizard.ResumeStep(s)
	return s
}

func newBriefFromSession(s *store.Session, id uuid.UUID, title string, now time.Time) *entity.Brief {
	b := &entity.Brief{
		Id:              id,
		AuthorId:        s.AuthorID,
		Title:           title,
		CurrentStep:     s.Step.String(),
		Status:          string(store.StatusDraft),
		Insights:        store.CloneInsights(s.InsightCandidates),
		Strategy:        s.Strategy.Clone(),
		FinalDocument:   s.FinalDocument.Clone(),
		DocumentVersion: s.DocumentVersion,
		Boundary:        string(s.Boundary),
		Snapshot:        s.Snapshot.Clone(),
		CreatedAt:       now,
	}
	applyProduct(b, s.Product)
	if s.SourceDocument != nil {
		doc := *s.SourceDocument
		b.Document = &doc
	}
	if s.SelectedInsightID != nil {
		b.SelectedInsightId = store.IntPtr(*s.SelectedInsightID)
	}
	return b
}

func documentSummary(doc *store.SourceDocument) *dto.DocumentSummary {
	if doc == nil {
		return nil
	}
	return &dto.DocumentSummary{
		FileName:   doc.FileName,
		FileType:   doc.FileType,
		FileSize:   doc.FileSize,
		UploadedAt: doc.UploadedAt,
		CharCount:  utf8.RuneCountInString(doc.RawText),
	}
}

func stepStates(s *store.Session) []dto.StepState {
	steps := make([]dto.StepState, 0, store.StepCount)
	for i := 0; i < store.StepCount; i++ {
		step := store.Step(i)
		steps = append(steps, dto.StepState{
			Name:      step.String(),
			Completed: s.Completed[step],
			Reachable: wizard.CanNavigate(s, step),
		})
	}
	return steps
}

func briefTitle(s *store.Session) string {
	if s.Title != "" {
		return s.Title
	}
	if s.Product != nil && s.Product.Name != "" {
		return s.Product.Name
	}
	return "Untitled brief"
}
