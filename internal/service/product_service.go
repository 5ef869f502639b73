package service

import (
	"context"
	"strings"
	"time"

	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/repository/specification"
	"ai-briefbuilder-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProductService interface {
	List(ctx context.Context) ([]*dto.ProductResponse, error)
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
}

type productService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProductService(uowFactory unitofwork.RepositoryFactory) IProductService {
	return &productService{
		uowFactory: uowFactory,
	}
}

func (c *productService) List(ctx context.Context) ([]*dto.ProductResponse, error) {
	if c.uowFactory == nil {
		return nil, apperror.StoreUnavailable(errStoreDisabled)
	}

	products, err := c.uowFactory.NewUnitOfWork(ctx).ProductRepository().FindAll(ctx,
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, nil
}

func (c *productService) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if c.uowFactory == nil {
		return nil, apperror.StoreUnavailable(errStoreDisabled)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("product name is required")
	}

	repo := c.uowFactory.NewUnitOfWork(ctx).ProductRepository()
	existing, err := repo.FindOne(ctx, specification.ByProductName{Name: name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation("a product with this name already exists")
	}

	product := &entity.Product{
		Id:          uuid.New(),
		Name:        name,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
