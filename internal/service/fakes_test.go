package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/internal/repository/contract"
	"ai-briefbuilder-be/internal/repository/memory"
	"ai-briefbuilder-be/internal/repository/specification"
	"ai-briefbuilder-be/internal/repository/unitofwork"
	"ai-briefbuilder-be/pkg/events"
	"ai-briefbuilder-be/pkg/generation"
	"ai-briefbuilder-be/pkg/llm"
	"ai-briefbuilder-be/pkg/savestatus"
	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
)

type fakeBriefRepository struct {
	mu        sync.Mutex
	briefs    map[uuid.UUID]*entity.Brief
	creates   int
	patches   []entity.BriefPatch
	updateErr error
}

func newFakeBriefRepository() *fakeBriefRepository {
	return &fakeBriefRepository{briefs: map[uuid.UUID]*entity.Brief{}}
}

func (r *fakeBriefRepository) Create(ctx context.Context, brief *entity.Brief) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	copied := *brief
	r.briefs[brief.Id] = &copied
	return nil
}

func (r *fakeBriefRepository) Update(ctx context.Context, id uuid.UUID, patch entity.BriefPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, patch)
	if r.updateErr != nil {
		return r.updateErr
	}
	b, ok := r.briefs[id]
	if !ok {
		return apperror.NotFound("brief")
	}
	if b.IsArchived() && (patch.Status == nil || *patch.Status != string(store.StatusArchived)) {
		return contract.ErrBriefArchived
	}

	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.CurrentStep != nil {
		b.CurrentStep = *patch.CurrentStep
	}
	if patch.Product != nil {
		b.ProductId = patch.Product.CatalogID
		b.CustomProductName = patch.Product.CustomName
		b.ProductName = patch.Product.Name
		b.ProductCategory = patch.Product.Category
	}
	if patch.Document != nil {
		b.Document = patch.Document
	}
	if patch.Insights != nil {
		b.Insights = *patch.Insights
	}
	if patch.SelectedInsightId != nil {
		b.SelectedInsightId = patch.SelectedInsightId
	} else if patch.ClearSelectedInsight {
		b.SelectedInsightId = nil
	}
	if patch.Strategy != nil {
		b.Strategy = patch.Strategy
	}
	if patch.FinalDocument != nil {
		b.FinalDocument = patch.FinalDocument
	} else if patch.ClearFinalDocument {
		b.FinalDocument = nil
	}
	if patch.DocumentVersion != nil {
		b.DocumentVersion = *patch.DocumentVersion
	}
	if patch.Boundary != nil {
		b.Boundary = *patch.Boundary
	}
	if patch.Snapshot != nil {
		b.Snapshot = patch.Snapshot.Clone()
	} else if patch.ClearSnapshot {
		b.Snapshot = nil
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.CompletedAt != nil {
		b.CompletedAt = patch.CompletedAt
	}
	if patch.ArchivedAt != nil {
		b.ArchivedAt = patch.ArchivedAt
	}
	return nil
}

func (r *fakeBriefRepository) Archive(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.briefs[id]
	if !ok {
		return apperror.NotFound("brief")
	}
	if b.IsArchived() {
		return nil
	}
	b.Status = string(store.StatusArchived)
	b.ArchivedAt = &at
	return nil
}

func (r *fakeBriefRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brief, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if b, found := r.briefs[byID.ID]; found {
				copied := *b
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, errors.New("fake repository only supports ByID")
}

func (r *fakeBriefRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brief, error) {
	items, _, err := r.List(ctx, contract.BriefFilter{IncludeArchived: true})
	return items, err
}

func (r *fakeBriefRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.briefs)), nil
}

func (r *fakeBriefRepository) List(ctx context.Context, filter contract.BriefFilter) ([]*entity.Brief, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Brief
	for _, b := range r.briefs {
		if filter.AuthorId != uuid.Nil && b.AuthorId != filter.AuthorId {
			continue
		}
		if !filter.IncludeArchived && b.IsArchived() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		copied := *b
		items = append(items, &copied)
	}
	return items, int64(len(items)), nil
}

func (r *fakeBriefRepository) get(id uuid.UUID) *entity.Brief {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.briefs[id]
	if !ok {
		return nil
	}
	copied := *b
	return &copied
}

func (r *fakeBriefRepository) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

func (r *fakeBriefRepository) lastPatch() entity.BriefPatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.patches[len(r.patches)-1]
}

type fakeProductRepository struct {
	products map[uuid.UUID]*entity.Product
}

func (r *fakeProductRepository) Create(ctx context.Context, product *entity.Product) error {
	r.products[product.Id] = product
	return nil
}

func (r *fakeProductRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			return r.products[s.ID], nil
		case specification.ByProductName:
			for _, p := range r.products {
				if p.Name == s.Name {
					return p, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeUnitOfWork struct {
	briefs   *fakeBriefRepository
	products *fakeProductRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) BriefRepository() contract.BriefRepository {
	return u.briefs
}

func (u *fakeUnitOfWork) ProductRepository() contract.ProductRepository {
	return u.products
}

type fakeRepositoryFactory struct {
	briefs   *fakeBriefRepository
	products *fakeProductRepository
}

func newFakeRepositoryFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{
		briefs:   newFakeBriefRepository(),
		products: &fakeProductRepository{products: map[uuid.UUID]*entity.Product{}},
	}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{briefs: f.briefs, products: f.products}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type draftFixture struct {
	factory   *fakeRepositoryFactory
	drafts    *memory.DraftRepository
	tracker   *savestatus.MemoryTracker
	publisher *recordingPublisher
	service   *draftService
}

// newDraftFixture wires the draft service with an inline autosave queue so every autosave
// lands in the fake repository before the call returns.
func newDraftFixture(provider llm.LLMProvider) *draftFixture {
	factory := newFakeRepositoryFactory()
	drafts := memory.NewDraftRepository(time.Hour)
	tracker := savestatus.NewMemoryTracker(time.Hour)
	publisher := &recordingPublisher{}
	log := logger.NewNopLogger()

	generationService := NewGenerationService(generation.NewGenerator(provider), time.Second, log)
	svc := NewDraftService(factory, drafts, generationService, NewInlineAutosaveQueue(factory, tracker, log), tracker, publisher, log)

	return &draftFixture{
		factory:   factory,
		drafts:    drafts,
		tracker:   tracker,
		publisher: publisher,
		service:   svc.(*draftService),
	}
}

// seedCompleted stores a completed brief with a version 2 final document and opens it as
// a workspace, the way LoadSession leaves it.
func (f *draftFixture) seedCompleted(authorId uuid.UUID) *store.Session {
	id := uuid.New()
	completedAt := time.Now().Add(-time.Hour)
	s := &store.Session{
		Key:      id,
		ID:       id,
		AuthorID: authorId,
		Title:    "Widget X launch",
		Product:  &store.Product{CustomName: "Widget X", Name: "Widget X"},
		SourceDocument: &store.SourceDocument{
			FileName: "research.txt",
			FileType: "text/plain",
			RawText:  "users report slow delivery",
		},
		InsightCandidates: []store.Insight{
			{ID: 1, Headline: "Speed Matters", Text: "Fast is respectful"},
			{ID: 2, Headline: "Silence Hurts", Text: "Updates matter"},
		},
		SelectedInsightID: store.IntPtr(1),
		Strategy: &store.Strategy{
			Essence: "Time is respect",
			Unlock:  "Show the clock",
			Sections: []store.StrategySection{
				{Title: "Role", Summary: "Short", Content: "Long form"},
			},
		},
		FinalDocument: &store.FinalDocument{
			MessageStrategy: store.MessageStrategy{Proposition: "Know when it arrives"},
			Version:         2,
		},
		Status:      store.StatusComplete,
		CompletedAt: &completedAt,
	}

	brief := newBriefFromSession(s, id, s.Title, time.Now())
	brief.Status = string(store.StatusComplete)
	brief.CompletedAt = &completedAt
	_ = f.factory.briefs.Create(context.Background(), brief)
	f.factory.briefs.creates = 0

	loaded := sessionFromBrief(f.factory.briefs.get(id))
	f.drafts.Save(loaded)
	return loaded
}
