package unitofwork

import (
	"context"

	"ai-briefbuilder-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BriefRepository() contract.BriefRepository
	ProductRepository() contract.ProductRepository
}
