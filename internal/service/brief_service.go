package service

import (
	"context"
	"errors"
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
	"ai-briefbuilder-be/pkg/store"
	"ai-briefbuilder-be/pkg/wizard"

	"github.com/google/uuid"
)

const (
	briefModule     = "BriefService"
	defaultPageSize = 20
	duplicatePrefix = "Copy of "
)

type IBriefService interface {
	List(ctx context.Context, authorId uuid.UUID, req *dto.ListBriefsRequest) (*dto.ListBriefsResponse, error)
	Show(ctx context.Context, authorId uuid.UUID, id uuid.UUID) (*dto.ShowBriefResponse, error)
	Archive(ctx context.Context, authorId uuid.UUID, id uuid.UUID) error
	Duplicate(ctx context.Context, authorId uuid.UUID, id uuid.UUID) (*dto.DuplicateBriefResponse, error)
}

type briefService struct {
	uowFactory     unitofwork.RepositoryFactory
	drafts         *memory.DraftRepository
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewBriefService(
	uowFactory unitofwork.RepositoryFactory,
	drafts *memory.DraftRepository,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IBriefService {
	if eventPublisher == nil {
		eventPublisher = events.NoopPublisher{}
	}
	return &briefService{
		uowFactory:     uowFactory,
		drafts:         drafts,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

var errStoreDisabled = errors.New("persistence is disabled")

func (c *briefService) List(ctx context.Context, authorId uuid.UUID, req *dto.ListBriefsRequest) (*dto.ListBriefsResponse, error) {
	if c.uowFactory == nil {
		return nil, apperror.StoreUnavailable(errStoreDisabled)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	filter := contract.BriefFilter{
		AuthorId:        authorId,
		IncludeArchived: req.IncludeArchived,
		Limit:           pageSize,
		Offset:          (page - 1) * pageSize,
	}
	if req.ProductId != "" {
		productId, err := uuid.Parse(req.ProductId)
		if err != nil {
			return nil, apperror.Validation("product_id must be a valid UUID")
		}
		filter.ProductId = &productId
	}
	if req.Status != "" {
		status := req.Status
		filter.Status = &status
	}

	briefs, total, err := c.uowFactory.NewUnitOfWork(ctx).BriefRepository().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.BriefSummaryResponse, 0, len(briefs))
	for _, b := range briefs {
		items = append(items, &dto.BriefSummaryResponse{
			Id:               b.Id,
			Title:            b.Title,
			ProductName:      b.ProductName,
			ProductCategory:  b.ProductCategory,
			Status:           b.Status,
			CurrentStep:      b.CurrentStep,
			HasFinalDocument: b.FinalDocument != nil,
			CreatedAt:        b.CreatedAt,
			UpdatedAt:        b.UpdatedAt,
			CompletedAt:      b.CompletedAt,
		})
	}

	return &dto.ListBriefsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (c *briefService) Show(ctx context.Context, authorId uuid.UUID, id uuid.UUID) (*dto.ShowBriefResponse, error) {
	if c.uowFactory == nil {
		return nil, apperror.StoreUnavailable(errStoreDisabled)
	}

	brief, err := c.findOwned(ctx, c.uowFactory.NewUnitOfWork(ctx), authorId, id)
	if err != nil {
		return nil, err
	}

	s := sessionFromBrief(brief)
	res := &dto.ShowBriefResponse{
		Id:                brief.Id,
		Title:             brief.Title,
		Product:           s.Product,
		Status:            brief.Status,
		CurrentStep:       brief.CurrentStep,
		Document:          documentSummary(brief.Document),
		Insights:          s.InsightCandidates,
		SelectedInsightId: s.SelectedInsightID,
		DisplayInsight:    wizard.DisplayInsight(s),
		Strategy:          s.Strategy,
		CompletedAt:       brief.CompletedAt,
		ArchivedAt:        brief.ArchivedAt,
		CreatedAt:         brief.CreatedAt,
		UpdatedAt:         brief.UpdatedAt,
	}
	if res.Insights == nil {
		res.Insights = []store.Insight{}
	}

	// A stored document without a matching selection is reported, never shown.
	doc, err := wizard.DisplayableFinalDocument(s)
	if err != nil {
		res.FinalDocumentWithheld = true
		c.logger.Warn(briefModule, "Final document has no insight selection", map[string]interface{}{"brief_id": id.String()})
	}
	res.FinalDocument = doc
	return res, nil
}

// Archive is idempotent; archiving an archived brief changes nothing and emits no event.
func (c *briefService) Archive(ctx context.Context, authorId uuid.UUID, id uuid.UUID) error {
	if c.uowFactory == nil {
		return apperror.StoreUnavailable(errStoreDisabled)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	brief, err := c.findOwned(ctx, uow, authorId, id)
	if err != nil {
		return err
	}
	if brief.IsArchived() {
		return nil
	}

	if err := uow.BriefRepository().Archive(ctx, id, time.Now()); err != nil {
		return err
	}
	if open := c.drafts.DeleteByBriefID(id); open > 0 {
		c.logger.Debug(briefModule, "Closed open workspaces of archived brief", map[string]interface{}{
			"brief_id":   id.String(),
			"workspaces": open,
		})
	}

	c.publish(ctx, events.NewBriefEvent(events.BriefArchived, id, authorId, map[string]interface{}{
		"title": brief.Title,
	}))
	return nil
}

// Duplicate copies product, document, insights and strategy into a new draft without a
// final document, whatever the source status.
func (c *briefService) Duplicate(ctx context.Context, authorId uuid.UUID, id uuid.UUID) (*dto.DuplicateBriefResponse, error) {
	if c.uowFactory == nil {
		return nil, apperror.StoreUnavailable(errStoreDisabled)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	defer uow.Rollback()

	source, err := c.findOwned(ctx, uow, authorId, id)
	if err != nil {
		return nil, err
	}

	copied := &entity.Brief{
		Id:                uuid.New(),
		AuthorId:          authorId,
		Title:             duplicatePrefix + source.Title,
		ProductId:         source.ProductId,
		CustomProductName: source.CustomProductName,
		ProductName:       source.ProductName,
		ProductCategory:   source.ProductCategory,
		Document:          source.Document,
		Insights:          store.CloneInsights(source.Insights),
		SelectedInsightId: source.SelectedInsightId,
		Strategy:          source.Strategy.Clone(),
		Status:            string(store.StatusDraft),
		CreatedAt:         time.Now(),
	}
	resumed := sessionFromBrief(copied)
	copied.CurrentStep = resumed.Step.String()

	if err := uow.BriefRepository().Create(ctx, copied); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.StoreUnavailable(err)
	}

	c.publish(ctx, events.NewBriefEvent(events.BriefDuplicated, copied.Id, authorId, map[string]interface{}{
		"source_id": source.Id.String(),
		"title":     copied.Title,
	}))
	c.logger.Info(briefModule, "Brief duplicated", map[string]interface{}{
		"source_id": source.Id.String(),
		"copy_id":   copied.Id.String(),
	})

	return &dto.DuplicateBriefResponse{
		Id:       copied.Id,
		SourceId: source.Id,
		Title:    copied.Title,
	}, nil
}

func (c *briefService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, authorId uuid.UUID, id uuid.UUID) (*entity.Brief, error) {
	brief, err := uow.BriefRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if brief == nil {
		return nil, apperror.NotFound("brief")
	}
	if brief.AuthorId != authorId {
		return nil, apperror.Forbidden("brief belongs to another author")
	}
	return brief, nil
}

func (c *briefService) publish(ctx context.Context, event events.Event) {
	if err := c.eventPublisher.Publish(ctx, event); err != nil {
		c.logger.Warn(briefModule, "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
