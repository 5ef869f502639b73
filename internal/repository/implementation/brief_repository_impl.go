package implementation

import (
	"context"
	"errors"
	"time"

	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/mapper"
	"ai-briefbuilder-be/internal/model"
	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/repository/contract"
	"ai-briefbuilder-be/internal/repository/scope"
	"ai-briefbuilder-be/internal/repository/specification"
	"ai-briefbuilder-be/pkg/store"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type BriefRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BriefMapper
}

func NewBriefRepository(db *gorm.DB) contract.BriefRepository {
	return &BriefRepositoryImpl{
		db:     db,
		mapper: mapper.NewBriefMapper(),
	}
}

func (r *BriefRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BriefRepositoryImpl) Create(ctx context.Context, brief *entity.Brief) error {
	if brief.Id == uuid.Nil {
		brief.Id = uuid.New()
	}
	m := r.mapper.ToModel(brief)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return wrapStoreError(err)
	}
	*brief = *r.mapper.ToEntity(m)
	return nil
}

func (r *BriefRepositoryImpl) Update(ctx context.Context, id uuid.UUID, patch entity.BriefPatch) error {
	cols := r.mapper.ToColumns(patch)
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now()

	query := r.db.WithContext(ctx).Model(&model.Brief{}).Where("id = ?", id)
	if patch.Status == nil || *patch.Status != string(store.StatusArchived) {
		query = query.Scopes(scope.ExcludeArchived)
	}

	result := query.Updates(cols)
	if result.Error != nil {
		return wrapStoreError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	existing, err := r.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if existing != nil && existing.IsArchived() {
		return contract.ErrBriefArchived
	}
	return apperror.NotFound("brief")
}

func (r *BriefRepositoryImpl) Archive(ctx context.Context, id uuid.UUID, at time.Time) error {
	existing, err := r.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotFound("brief")
	}
	if existing.IsArchived() {
		return nil
	}

	status := string(store.StatusArchived)
	return r.Update(ctx, id, entity.BriefPatch{Status: &status, ArchivedAt: &at})
}

func (r *BriefRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brief, error) {
	var m model.Brief
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapStoreError(err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BriefRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brief, error) {
	var models []*model.Brief
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, wrapStoreError(err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BriefRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Brief{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapStoreError(err)
	}
	return count, nil
}

// List returns one page of the author's briefs and the total match count, fetched concurrently.
func (r *BriefRepositoryImpl) List(ctx context.Context, filter contract.BriefFilter) ([]*entity.Brief, int64, error) {
	specs := []specification.Specification{specification.AuthoredBy{AuthorID: filter.AuthorId}}
	if filter.ProductId != nil {
		specs = append(specs, specification.ByProductID{ProductID: *filter.ProductId})
	}
	if filter.Status != nil {
		specs = append(specs, specification.ByStatus{Status: *filter.Status})
	} else if !filter.IncludeArchived {
		specs = append(specs, specification.NotArchived{})
	}

	var (
		items []*entity.Brief
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page := make([]specification.Specification, 0, len(specs)+1)
		page = append(page, specs...)
		page = append(page, specification.Pagination{Limit: filter.Limit, Offset: filter.Offset})
		models := []*model.Brief{}
		query := r.applySpecifications(r.db.WithContext(gctx), page...)
		if err := scope.OrderByUpdatedDesc(query).Find(&models).Error; err != nil {
			return wrapStoreError(err)
		}
		items = r.mapper.ToEntities(models)
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = r.Count(gctx, specs...)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
