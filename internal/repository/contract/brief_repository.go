package contract

import (
	"context"
	"time"

	"ai-briefbuilder-be/internal/entity"
	"ai-briefbuilder-be/internal/pkg/apperror"
	"ai-briefbuilder-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrBriefArchived is returned by Update when the row is archived and the patch does not archive it.
var ErrBriefArchived = apperror.Validation("brief is archived")

type BriefFilter struct {
	AuthorId        uuid.UUID
	ProductId       *uuid.UUID
	Status          *string
	IncludeArchived bool
	Limit           int
	Offset          int
}

type BriefRepository interface {
	Create(ctx context.Context, brief *entity.Brief) error
	// Update writes only the fields set on the patch. Archived rows are left untouched.
	Update(ctx context.Context, id uuid.UUID, patch entity.BriefPatch) error
	Archive(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Brief, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Brief, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	List(ctx context.Context, filter BriefFilter) ([]*entity.Brief, int64, error)
}
