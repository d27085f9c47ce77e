package customer

import (
	"context"

	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Enricher resolves the audit user ids of a batch of customers against
// the user directory in a single call.
type Enricher struct {
	resolver directory.Resolver
	log      *zap.Logger
}

// NewEnricher creates an enricher backed by the given resolver.
func NewEnricher(resolver directory.Resolver, log *zap.Logger) *Enricher {
	return &Enricher{resolver: resolver, log: log}
}

// Resolve collects the distinct non-nil ids from the given audit
// references and resolves them in one directory call. Ids the directory
// does not know are simply absent from the returned map. When there is
// nothing to resolve, no call is made.
func (e *Enricher) Resolve(ctx context.Context, refs []*uuid.UUID) (map[uuid.UUID]directory.UserSummary, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if _, ok := seen[*ref]; ok {
			continue
		}
		seen[*ref] = struct{}{}
		ids = append(ids, *ref)
	}

	if len(ids) == 0 {
		return map[uuid.UUID]directory.UserSummary{}, nil
	}

	summaries, err := e.resolver.FindSummaries(ctx, ids)
	if err != nil {
		e.log.Error("user directory lookup failed",
			zap.Int("id_count", len(ids)),
			zap.Error(err))
		return nil, err
	}

	users := make(map[uuid.UUID]directory.UserSummary, len(summaries))
	for _, s := range summaries {
		users[s.ID] = s
	}
	return users, nil
}
