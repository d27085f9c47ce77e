package customer

import (
	"context"

	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence operations for customers.
//
// Lookup methods take an includeDeleted flag: callers with elevated
// visibility pass true to see soft-deleted rows, everyone else gets
// active rows only. Summary batch lookups never include deleted rows.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error

	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*Customer, error)
	FindByCode(ctx context.Context, code int64, includeDeleted bool) (*Customer, error)
	FindPage(ctx context.Context, query shared.PageQuery) ([]*Customer, error)
	Count(ctx context.Context, includeDeleted bool) (int64, error)

	FindSummaryByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*Summary, error)
	FindSummaryPage(ctx context.Context, query shared.PageQuery) ([]*Summary, error)
	// FindSummariesByIDs resolves a set of ids to summaries of active
	// customers. Ids that are unknown or soft-deleted are silently
	// omitted from the result.
	FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*Summary, error)
}
