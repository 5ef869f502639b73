package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/pkg/logger"
	"ai-briefbuilder-be/internal/repository/contract"
	"ai-briefbuilder-be/internal/repository/memory"
	"ai-briefbuilder-be/internal/repository/specification"
	"ai-briefbuilder-be/internal/repository/unitofwork"
	"ai-briefbuilder-be/pkg/events"
	"ai-briefbuilder-be/pkg/generation"
	"ai-briefbuilder-be/pkg/savestatus"
	"ai-briefbuilder-be/pkg/store"
	"ai-briefbuilder-be/pkg/wizard"

	"github.com/google/uuid"
)

const draftModule = "DraftService"

type IDraftService interface {
	Start(ctx context.Context, authorId uuid.UUID) (*dto.DraftResponse, error)
	Get(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error)
	CreateSession(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.SelectProductRequest) (*dto.DraftResponse, error)
	LoadSession(ctx context.Context, authorId uuid.UUID, briefId uuid.UUID) (*dto.DraftResponse, error)
	AttachDocument(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.AttachDocumentRequest) (*dto.DraftResponse, error)
	ExtractInsights(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error)
	SelectInsight(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.SelectInsightRequest) (*dto.DraftResponse, error)
	SynthesizeStrategy(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error)
	SetStrategy(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.SetStrategyRequest) (*dto.DraftResponse, error)
	GenerateFinalDocument(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error)
	EditFinalDocument(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.EditFinalDocumentRequest) (*dto.DraftResponse, error)
	Navigate(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.NavigateRequest) (*dto.DraftResponse, error)
	Decide(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, error)
	CompleteSession(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error)
}

type draftService struct {
	// uowFactory is nil when the store was unreachable at boot.
	uowFactory        unitofwork.RepositoryFactory
	drafts            *memory.DraftRepository
	generationService IGenerationService
	autosaveQueue     IAutosaveQueue
	saveStatus        savestatus.Tracker
	eventPublisher    events.Publisher
	logger            logger.ILogger

	// mu serialises read-modify-write of workspaces. Generation calls run outside it.
	mu  sync.Mutex
	now func() time.Time
}

func NewDraftService(
	uowFactory unitofwork.RepositoryFactory,
	drafts *memory.DraftRepository,
	generationService IGenerationService,
	autosaveQueue IAutosaveQueue,
	saveStatus savestatus.Tracker,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IDraftService {
	if eventPublisher == nil {
		eventPublisher = events.NoopPublisher{}
	}
	return &draftService{
		uowFactory:        uowFactory,
		drafts:            drafts,
		generationService: generationService,
		autosaveQueue:     autosaveQueue,
		saveStatus:        saveStatus,
		eventPublisher:    eventPublisher,
		logger:            logger,
		now:               time.Now,
	}
}

func (c *draftService) persistenceEnabled() bool {
	return c.uowFactory != nil
}

func (c *draftService) Start(ctx context.Context, authorId uuid.UUID) (*dto.DraftResponse, error) {
	s := store.NewSession(authorId)
	c.drafts.Save(s)
	return c.view(ctx, s), nil
}

func (c *draftService) Get(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error) {
	s, err := c.workspace(authorId, key)
	if err != nil {
		return nil, err
	}
	return c.view(ctx, s), nil
}

func (c *draftService) CreateSession(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.SelectProductRequest) (*dto.DraftResponse, error) {
	product, err := c.resolveProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	s, err := c.update(authorId, key, func(s *store.Session) error {
		s.Product = product
		if title := strings.TrimSpace(req.Title); title != "" {
			s.Title = title
		} else if s.Title == "" {
			s.Title = product.Name
		}
		wizard.Complete(s, store.StepProduct)
		if s.Step == store.StepProduct {
			if err := wizard.Navigate(s, store.StepResearch, c.now()); err != nil {
				return err
			}
		}

		if !c.persistenceEnabled() {
			return nil
		}
		if s.HasID() {
			// The blank-shell guard would drop this on autosave, so it is written here.
			title := s.Title
			step := s.Step.String()
			patch := entity.BriefPatch{Title: &title, Product: product, CurrentStep: &step}
			return c.uowFactory.NewUnitOfWork(ctx).BriefRepository().Update(ctx, s.ID, patch)
		}

		brief := newBriefFromSession(s, uuid.New(), s.Title, c.now())
		if err := c.uowFactory.NewUnitOfWork(ctx).BriefRepository().Create(ctx, brief); err != nil {
			return err
		}
		s.ID = brief.Id
		c.publish(ctx, events.NewBriefEvent(events.BriefCreated, brief.Id, authorId, map[string]interface{}{
			"title":   brief.Title,
			"product": product.Name,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(draftModule, "Session created", map[string]interface{}{
		"key":         s.Key.String(),
		"brief_id":    s.ID.String(),
		"persistence": c.persistenceEnabled(),
	})
	return c.view(ctx, s), nil
}

func (c *draftService) resolveProduct(ctx context.Context, req *dto.SelectProductRequest) (*store.Product, error) {
	hasCatalog := req.ProductId != nil && *req.ProductId != uuid.Nil
	custom := strings.TrimSpace(req.CustomProductName)

	switch {
	case hasCatalog && custom != "":
		return nil, apperror.Validation("choose either a catalog product or a custom product name, not both")
	case custom != "":
		return &store.Product{CustomName: custom, Name: custom}, nil
	case !hasCatalog:
		return nil, apperror.Validation("no product selected")
	}

	if !c.persistenceEnabled() {
		return nil, apperror.StoreUnavailable(errors.New("product catalog is unavailable"))
	}
	found, err := c.uowFactory.NewUnitOfWork(ctx).ProductRepository().FindOne(ctx, specification.ByID{ID: *req.ProductId})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperror.NotFound("product")
	}
	id := found.Id
	return &store.Product{CatalogID: &id, Name: found.Name, Category: found.Category}, nil
}

// LoadSession resumes a stored brief. A workspace already open for the brief wins over the
// stored record so unsaved local edits survive a reload.
func (c *draftService) LoadSession(ctx context.Context, authorId uuid.UUID, briefId uuid.UUID) (*dto.DraftResponse, error) {
	if !c.persistenceEnabled() {
		return nil, apperror.StoreUnavailable(errors.New("stored briefs are unavailable"))
	}

	brief, err := c.uowFactory.NewUnitOfWork(ctx).BriefRepository().FindOne(ctx, specification.ByID{ID: briefId})
	if err != nil {
		return nil, err
	}
	if brief == nil {
		return nil, apperror.NotFound("brief")
	}
	if brief.AuthorId != authorId {
		return nil, apperror.Forbidden("brief belongs to another author")
	}
	if brief.IsArchived() {
		return nil, apperror.Validation("brief is archived")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if open, ok := c.drafts.FindByBriefID(brief.Id); ok && open.AuthorID == authorId && !open.IsBlank() {
		c.logger.Debug(draftModule, "Resumed open workspace", map[string]interface{}{"brief_id": brief.Id.String()})
		return c.view(ctx, open), nil
	}

	s := sessionFromBrief(brief)
	if s.SelectedInsightID != nil && s.SelectedInsight() == nil {
		c.logger.Warn(draftModule, "Stored selection does not match any insight, ignoring it", map[string]interface{}{
			"brief_id":            brief.Id.String(),
			"selected_insight_id": *s.SelectedInsightID,
		})
		s.SelectedInsightID = nil
		wizard.CompletionFromData(s)
		s.Step = wizard.ResumeStep(s)
	}

	c.drafts.Save(s)
	return c.view(ctx, s), nil
}

func (c *draftService) AttachDocument(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.AttachDocumentRequest) (*dto.DraftResponse, error) {
	if strings.TrimSpace(req.RawText) == "" {
		return nil, apperror.Validation("document has no readable text")
	}

	s, err := c.update(authorId, key, func(s *store.Session) error {
		if err := requireStep(s, store.StepResearch); err != nil {
			return err
		}
		s.SourceDocument = &store.SourceDocument{
			FileName:   req.FileName,
			FileType:   req.FileType,
			FileSize:   req.FileSize,
			UploadedAt: c.now(),
			RawText:    req.RawText,
		}
		wizard.Complete(s, store.StepResearch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return c.view(ctx, s), nil
}

func (c *draftService) ExtractInsights(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error) {
	current, err := c.workspace(authorId, key)
	if err != nil {
		return nil, err
	}
	if err := requireStep(current, store.StepInsights); err != nil {
		return nil, err
	}
	if current.SourceDocument == nil {
		return nil, apperror.Validation("attach a research document first")
	}

	candidates, err := c.generationService.ExtractInsights(ctx, current.SourceDocument.RawText)
	if err != nil {
		return nil, err
	}

	var clears entity.BriefPatch
	s, err := c.update(authorId, key, func(s *store.Session) error {
		wizard.BeforeUpstreamEdit(s, c.now())
		clears.ClearSelectedInsight = s.SelectedInsightID != nil
		s.InsightCandidates = candidates
		s.SelectedInsightID = nil
		wizard.AfterUpstreamEdit(s)

		// Candidates alone do not complete the step; a selection does.
		wizard.Invalidate(s, store.StepInsights)
		s.Step = store.StepInsights
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, clears)
	return c.view(ctx, s), nil
}

func (c *draftService) SelectInsight(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.SelectInsightRequest) (*dto.DraftResponse, error) {
	s, err := c.update(authorId, key, func(s *store.Session) error {
		if err := requireStep(s, store.StepInsights); err != nil {
			return err
		}
		if s.FindInsight(req.InsightId) == nil {
			return apperror.Validation(fmt.Sprintf("insight %d is not among the extracted insights", req.InsightId))
		}

		changed := s.SelectedInsightID == nil || *s.SelectedInsightID != req.InsightId
		wizard.BeforeUpstreamEdit(s, c.now())
		s.SelectedInsightID = store.IntPtr(req.InsightId)
		wizard.AfterUpstreamEdit(s)

		if changed && s.FinalDocument == nil {
			wizard.Invalidate(s, store.StepStrategy)
		}
		wizard.Complete(s, store.StepInsights)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return c.view(ctx, s), nil
}

func (c *draftService) SynthesizeStrategy(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error) {
	current, err := c.workspace(authorId, key)
	if err != nil {
		return nil, err
	}
	if err := requireStep(current, store.StepStrategy); err != nil {
		return nil, err
	}
	insight := current.SelectedInsight()
	if insight == nil {
		return nil, apperror.Validation("select an insight first")
	}
	if current.SourceDocument == nil {
		return nil, apperror.Validation("attach a research document first")
	}

	strategy, err := c.generationService.SynthesizeStrategy(ctx, current.SourceDocument.RawText, *insight)
	if err != nil {
		return nil, err
	}

	s, err := c.update(authorId, key, func(s *store.Session) error {
		return c.applyStrategy(s, strategy)
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return c.view(ctx, s), nil
}

func (c *draftService) SetStrategy(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.SetStrategyRequest) (*dto.DraftResponse, error) {
	strategy := &store.Strategy{
		Essence:  strings.TrimSpace(req.Essence),
		Unlock:   strings.TrimSpace(req.Unlock),
		Sections: make([]store.StrategySection, 0, len(req.Sections)),
	}
	for _, section := range req.Sections {
		strategy.Sections = append(strategy.Sections, store.StrategySection{
			Title:   section.Title,
			Purpose: section.Purpose,
			Summary: section.Summary,
			Content: section.Content,
		})
	}

	s, err := c.update(authorId, key, func(s *store.Session) error {
		if err := requireStep(s, store.StepStrategy); err != nil {
			return err
		}
		return c.applyStrategy(s, strategy)
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return c.view(ctx, s), nil
}

func (c *draftService) applyStrategy(s *store.Session, strategy *store.Strategy) error {
	if s.SelectedInsight() == nil {
		return apperror.Validation("select an insight first")
	}
	wizard.BeforeUpstreamEdit(s, c.now())
	s.Strategy = strategy
	wizard.AfterUpstreamEdit(s)

	wizard.Complete(s, store.StepStrategy)
	s.Step = store.StepStrategy
	return nil
}

func (c *draftService) GenerateFinalDocument(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error) {
	s, err := c.generate(ctx, authorId, key)
	if err != nil {
		return nil, err
	}
	return c.view(ctx, s), nil
}

func (c *draftService) generate(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*store.Session, error) {
	current, err := c.workspace(authorId, key)
	if err != nil {
		return nil, err
	}
	if current.Boundary == store.BoundaryPendingDecision {
		return nil, apperror.DecisionRequired(wizard.ErrDecisionRequired.Error())
	}
	if err := requireStep(current, store.StepBrief); err != nil {
		return nil, err
	}
	insight := current.SelectedInsight()
	if insight == nil {
		return nil, apperror.Validation("select an insight first")
	}
	if current.SourceDocument == nil {
		return nil, apperror.Validation("attach a research document first")
	}

	in := generation.FinalDocumentInput{
		Insight:  *insight,
		RawText:  current.SourceDocument.RawText,
		Strategy: current.Strategy.Clone(),
	}
	if current.Product != nil {
		in.ProductName = current.Product.Name
		in.Category = current.Product.Category
	}

	doc, err := c.generationService.GenerateFinalDocument(ctx, in)
	if err != nil {
		return nil, err
	}

	s, err := c.update(authorId, key, func(s *store.Session) error {
		if s.Boundary == store.BoundaryPendingDecision {
			return apperror.DecisionRequired("inputs changed while the brief was generating; choose to keep or regenerate")
		}
		wizard.AcceptGenerated(s, doc, c.now())
		s.Step = store.StepBrief
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return s, nil
}

func (c *draftService) EditFinalDocument(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.EditFinalDocumentRequest) (*dto.DraftResponse, error) {
	s, err := c.update(authorId, key, func(s *store.Session) error {
		return wizardError(wizard.ApplyEdit(s, &req.FinalDocument, c.now()))
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return c.view(ctx, s), nil
}

func (c *draftService) Navigate(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.NavigateRequest) (*dto.DraftResponse, error) {
	to, err := store.ParseStep(req.Step)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	s, err := c.update(authorId, key, func(s *store.Session) error {
		return wizardError(wizard.Navigate(s, to, c.now()))
	})
	if err != nil {
		return nil, err
	}

	c.autosave(ctx, s, entity.BriefPatch{})
	return c.view(ctx, s), nil
}

func (c *draftService) Decide(ctx context.Context, authorId uuid.UUID, key uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, error) {
	choice, err := wizard.ParseChoice(req.Choice)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	if choice == wizard.ChoiceBranch {
		return c.branch(ctx, authorId, key)
	}

	var clears entity.BriefPatch
	s, err := c.update(authorId, key, func(s *store.Session) error {
		if err := wizard.Decide(s, choice); err != nil {
			return wizardError(err)
		}
		if choice == wizard.ChoiceRegenerate {
			clears.ClearFinalDocument = true
			s.Step = store.StepBrief
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.autosave(ctx, s, clears)

	if choice == wizard.ChoiceRegenerate && wizard.CanNavigate(s, store.StepBrief) && s.SelectedInsight() != nil {
		// A failed call leaves the draft in REGENERATING; the generate endpoint retries it.
		regenerated, err := c.generate(ctx, authorId, key)
		if err != nil {
			return nil, err
		}
		s = regenerated
	}

	return &dto.DecisionResponse{Draft: c.view(ctx, s)}, nil
}

// branch stores the edited inputs as a new draft brief and rolls the original back to the
// inputs its final document was built from.
func (c *draftService) branch(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DecisionResponse, error) {
	if !c.persistenceEnabled() {
		return nil, apperror.StoreUnavailable(errors.New("branching needs a stored brief"))
	}

	c.mu.Lock()
	original, err := c.workspace(authorId, key)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if !original.HasID() {
		c.mu.Unlock()
		return nil, apperror.Validation("branching needs a saved brief")
	}

	edited, err := wizard.Branch(original)
	if err != nil {
		c.mu.Unlock()
		return nil, wizardError(err)
	}

	branchId := uuid.New()
	edited.Key = branchId
	edited.ID = branchId
	edited.Title = "Branch of " + briefTitle(original)
	edited.Step = wizard.ResumeStep(edited)

	brief := newBriefFromSession(edited, branchId, edited.Title, c.now())
	if err := c.uowFactory.NewUnitOfWork(ctx).BriefRepository().Create(ctx, brief); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.drafts.Save(original)
	c.drafts.Save(edited)
	c.mu.Unlock()

	// Upstream edits were autosaved while the decision was pending; this writes the restored inputs back.
	c.autosave(ctx, original, entity.BriefPatch{})
	c.publish(ctx, events.NewBriefEvent(events.BriefDuplicated, branchId, authorId, map[string]interface{}{
		"source_id": original.ID.String(),
		"title":     edited.Title,
		"branch":    true,
	}))

	c.logger.Info(draftModule, "Brief branched", map[string]interface{}{
		"source_id": original.ID.String(),
		"branch_id": branchId.String(),
	})
	return &dto.DecisionResponse{
		Draft:  c.view(ctx, original),
		Branch: c.view(ctx, edited),
	}, nil
}

// CompleteSession writes the whole known state synchronously and surfaces failures.
// Without a stored brief it does nothing.
func (c *draftService) CompleteSession(ctx context.Context, authorId uuid.UUID, key uuid.UUID) (*dto.DraftResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.workspace(authorId, key)
	if err != nil {
		return nil, err
	}
	if !s.HasID() || !c.persistenceEnabled() {
		return c.view(ctx, s), nil
	}
	if s.Boundary == store.BoundaryPendingDecision {
		return nil, apperror.DecisionRequired(wizard.ErrDecisionRequired.Error())
	}
	if _, err := wizard.DisplayableFinalDocument(s); err != nil {
		return nil, wizardError(err)
	}

	now := c.now()
	status := string(store.StatusComplete)
	patch := populatedPatch(s)
	patch.Status = &status
	patch.CompletedAt = &now
	patch.ClearFinalDocument = s.FinalDocument == nil

	if err := c.uowFactory.NewUnitOfWork(ctx).BriefRepository().Update(ctx, s.ID, patch); err != nil {
		if errors.Is(err, contract.ErrBriefArchived) {
			c.drafts.DeleteByBriefID(s.ID)
		}
		return nil, err
	}

	s.Status = store.StatusComplete
	s.CompletedAt = &now
	c.drafts.Save(s)

	if err := c.saveStatus.MarkSaved(ctx, s.ID, now); err != nil {
		c.logger.Warn(draftModule, "Failed to record save", map[string]interface{}{"error": err.Error()})
	}
	c.publish(ctx, events.NewBriefEvent(events.BriefCompleted, s.ID, authorId, map[string]interface{}{
		"title":   s.Title,
		"version": s.DocumentVersion,
	}))
	return c.view(ctx, s), nil
}

// autosave dispatches the populated fields of s plus any explicit clears. Sessions without a
// stored brief and blank shells are skipped: the latter may be a workspace whose load has
// not populated it yet, and writing it would null out real content.
func (c *draftService) autosave(ctx context.Context, s *store.Session, clears entity.BriefPatch) {
	if !s.HasID() || !c.persistenceEnabled() || s.IsBlank() {
		return
	}

	patch := populatedPatch(s)
	patch.ClearSelectedInsight = clears.ClearSelectedInsight && patch.SelectedInsightId == nil
	patch.ClearFinalDocument = clears.ClearFinalDocument && patch.FinalDocument == nil

	if err := c.autosaveQueue.Enqueue(ctx, s.ID, patch); err != nil {
		c.logger.Warn(draftModule, "Failed to enqueue autosave", map[string]interface{}{
			"brief_id": s.ID.String(),
			"error":    err.Error(),
		})
		if markErr := c.saveStatus.MarkFailed(ctx, s.ID, c.now(), err); markErr != nil {
			c.logger.Warn(draftModule, "Failed to record autosave failure", map[string]interface{}{"error": markErr.Error()})
		}
	}
}

func (c *draftService) workspace(authorId uuid.UUID, key uuid.UUID) (*store.Session, error) {
	s, ok := c.drafts.Get(key)
	if !ok {
		return nil, apperror.NotFound("draft")
	}
	if s.AuthorID != authorId {
		return nil, apperror.Forbidden("draft belongs to another author")
	}
	return s, nil
}

// update runs fn on a copy of the workspace and stores the copy only when fn succeeds.
func (c *draftService) update(authorId uuid.UUID, key uuid.UUID, fn func(s *store.Session) error) (*store.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.workspace(authorId, key)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, wizardError(err)
	}
	c.drafts.Save(s)
	return s, nil
}

func (c *draftService) publish(ctx context.Context, event events.Event) {
	if err := c.eventPublisher.Publish(ctx, event); err != nil {
		c.logger.Warn(draftModule, fmt.Sprintf("Failed to publish %s event", event.EventType()), map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *draftService) view(ctx context.Context, s *store.Session) *dto.DraftResponse {
	res := &dto.DraftResponse{
		Key:               s.Key,
		Title:             s.Title,
		Step:              s.Step.String(),
		Steps:             stepStates(s),
		Status:            string(s.Status),
		Product:           s.Product,
		Document:          documentSummary(s.SourceDocument),
		InsightCandidates: s.InsightCandidates,
		SelectedInsightId: s.SelectedInsightID,
		DisplayInsight:    wizard.DisplayInsight(s),
		Strategy:          s.Strategy,
		DocumentVersion:   s.DocumentVersion,
		Boundary:          string(s.Boundary),
		BranchAvailable:   wizard.CanBranch(s) == nil,
		CompletedAt:       s.CompletedAt,
		Persistence:       dto.PersistenceDisabled,
	}
	if res.InsightCandidates == nil {
		res.InsightCandidates = []store.Insight{}
	}

	doc, err := wizard.DisplayableFinalDocument(s)
	if err != nil {
		res.FinalDocumentWithheld = true
	}
	res.FinalDocument = doc

	if c.persistenceEnabled() {
		res.Persistence = dto.PersistenceEnabled
	}
	if s.HasID() {
		id := s.ID
		res.BriefId = &id
		if status, err := c.saveStatus.Get(ctx, s.ID); err == nil {
			res.SaveStatus = &status
		} else {
			c.logger.Debug(draftModule, "Save status unavailable", map[string]interface{}{"error": err.Error()})
		}
	}
	return res
}

func requireStep(s *store.Session, step store.Step) error {
	if wizard.CanNavigate(s, step) {
		return nil
	}
	return apperror.Validation(fmt.Sprintf("complete the step before %s first", step))
}

// wizardError maps sequencer and boundary errors onto the error taxonomy.
func wizardError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrDecisionRequired):
		return apperror.DecisionRequired(err.Error())
	case errors.Is(err, wizard.ErrStepLocked),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, wizard.ErrNoPendingDecision),
		errors.Is(err, wizard.ErrBranchUnavailable),
		errors.Is(err, wizard.ErrNoFinalDocument),
		errors.Is(err, wizard.ErrBriefWithoutInsight),
		errors.Is(err, store.ErrInvalidProduct),
		errors.Is(err, store.ErrDanglingSelection):
		return apperror.Validation(err.Error())
	}
	return err
}
