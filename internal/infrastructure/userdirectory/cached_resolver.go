package userdirectory

import (
	"context"

	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CachedResolver wraps a directory.Resolver with a SummaryCache.
// Cache failures degrade to direct lookups rather than failing the read.
type CachedResolver struct {
	inner directory.Resolver
	cache SummaryCache
	log   *zap.Logger
}

// NewCachedResolver wraps the given resolver with the given cache
func NewCachedResolver(inner directory.Resolver, cache SummaryCache, log *zap.Logger) *CachedResolver {
	return &CachedResolver{inner: inner, cache: cache, log: log}
}

// FindSummaries serves what it can from the cache and fetches the rest
// from the directory in one batch call.
func (r *CachedResolver) FindSummaries(ctx context.Context, ids []uuid.UUID) ([]directory.UserSummary, error) {
	cached, err := r.cache.GetMany(ctx, ids)
	if err != nil {
		r.log.Warn("directory cache read failed", zap.Error(err))
		cached = map[uuid.UUID]directory.UserSummary{}
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	result := make([]directory.UserSummary, 0, len(ids))
	for _, s := range cached {
		result = append(result, s)
	}

	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := r.inner.FindSummaries(ctx, missing)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetMany(ctx, fetched); err != nil {
		r.log.Warn("directory cache write failed", zap.Error(err))
	}

	return append(result, fetched...), nil
}
