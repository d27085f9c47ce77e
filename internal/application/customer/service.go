package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/customer-service/internal/domain/customer"
	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service implements the customer application operations. Reads honor
// the caller's soft-delete visibility via the access policy; full reads
// enrich audit references through the user directory.
type Service struct {
	repo     customer.Repository
	policy   *AccessPolicy
	enricher *Enricher
	log      *zap.Logger

	// legacyErrorWrapping reproduces the historical fault behavior of
	// mutations: a missing customer surfaces as a generic fault instead
	// of a not-found. Conflicts are reported precisely either way.
	legacyErrorWrapping bool
}

// Option configures optional service behavior.
type Option func(*Service)

// WithPreservedErrorKinds makes mutations report not-found errors
// as not-found instead of collapsing them into a generic fault.
func WithPreservedErrorKinds() Option {
	return func(s *Service) {
		s.legacyErrorWrapping = false
	}
}

// NewService creates the customer application service.
func NewService(repo customer.Repository, policy *AccessPolicy, enricher *Enricher, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:                repo,
		policy:              policy,
		enricher:            enricher,
		log:                 log,
		legacyErrorWrapping: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new customer. The store assigns the numeric code.
// The new record is returned unresolved: its only audit reference is
// the caller's own id, so no directory call is made and directory
// outages cannot fail creation.
func (s *Service) Create(ctx context.Context, caller Caller, req CreateCustomerRequest) (*CustomerResponse, error) {
	c, err := customer.NewCustomer(req.Name, req.Email, caller.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, s.mutationError("create", err)
	}

	return toResponse(c, nil), nil
}

// FindAll returns one page of customers, newest first, with audit
// references enriched. Privileged callers also see soft-deleted rows.
func (s *Service) FindAll(ctx context.Context, caller Caller, query shared.PageQuery) (*shared.Page[*CustomerResponse], error) {
	query = query.Normalize()
	query.IncludeDeleted = s.policy.IncludeDeleted(caller)

	var (
		customers []*customer.Customer
		total     int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = s.repo.FindPage(gCtx, query)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gCtx, query.IncludeDeleted)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	refs := make([]*uuid.UUID, 0, len(customers)*3)
	for _, c := range customers {
		refs = append(refs, c.CreatedBy, c.UpdatedBy, c.DeletedBy())
	}
	users, err := s.enricher.Resolve(ctx, refs)
	if err != nil {
		return nil, err
	}

	data := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		data[i] = toResponse(c, users)
	}
	page := shared.NewPage(data, total, query.Page, query.Limit)
	return &page, nil
}

// FindAllSummary returns one page of customer summaries, newest first.
// Summaries carry no audit references, so no directory call is made.
func (s *Service) FindAllSummary(ctx context.Context, caller Caller, query shared.PageQuery) (*shared.Page[*SummaryResponse], error) {
	query = query.Normalize()
	query.IncludeDeleted = s.policy.IncludeDeleted(caller)

	var (
		summaries []*customer.Summary
		total     int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaries, err = s.repo.FindSummaryPage(gCtx, query)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gCtx, query.IncludeDeleted)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := make([]*SummaryResponse, len(summaries))
	for i, sum := range summaries {
		data[i] = toSummaryResponse(sum)
	}
	page := shared.NewPage(data, total, query.Page, query.Limit)
	return &page, nil
}

// FindOne returns a single customer by id with audit references enriched.
func (s *Service) FindOne(ctx context.Context, caller Caller, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, c)
}

// FindOneByCode returns a single customer by its numeric code.
func (s *Service) FindOneByCode(ctx context.Context, caller Caller, code int64) (*CustomerResponse, error) {
	c, err := s.repo.FindByCode(ctx, code, s.policy.IncludeDeleted(caller))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Customer with code %d not found", code))
		}
		return nil, err
	}
	return s.enrichOne(ctx, c)
}

// FindOneSummary returns the summary projection of a single customer.
func (s *Service) FindOneSummary(ctx context.Context, caller Caller, id uuid.UUID) (*SummaryResponse, error) {
	sum, err := s.repo.FindSummaryByID(ctx, id, s.policy.IncludeDeleted(caller))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, notFoundByID(id)
		}
		return nil, err
	}
	return toSummaryResponse(sum), nil
}

// FindManySummary resolves a set of ids to summaries of active
// customers. Unknown and soft-deleted ids are omitted regardless of the
// caller's visibility.
func (s *Service) FindManySummary(ctx context.Context, ids []uuid.UUID) ([]*SummaryResponse, error) {
	if len(ids) == 0 {
		return []*SummaryResponse{}, nil
	}

	summaries, err := s.repo.FindSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := make([]*SummaryResponse, len(summaries))
	for i, sum := range summaries {
		data[i] = toSummaryResponse(sum)
	}
	return data, nil
}

// Update applies a partial update to a customer the caller can see.
func (s *Service) Update(ctx context.Context, caller Caller, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, s.mutationError("update", err)
	}

	name := c.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := c.Email
	if req.Email != nil {
		email = *req.Email
	}
	if err := c.Update(name, email, caller.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, s.mutationError("update", err)
	}
	resp, err := s.enrichOne(ctx, c)
	if err != nil {
		return nil, s.mutationError("update", err)
	}
	return resp, nil
}

// Remove soft-deletes a customer the caller can see, recording the
// caller as the deleting actor.
func (s *Service) Remove(ctx context.Context, caller Caller, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, s.mutationError("delete", err)
	}

	if err := c.Delete(caller.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, s.mutationError("delete", err)
	}
	resp, err := s.enrichOne(ctx, c)
	if err != nil {
		return nil, s.mutationError("delete", err)
	}
	return resp, nil
}

// Restore reactivates a soft-deleted customer. The lookup honors the
// caller's visibility, so only callers who can see deleted rows can
// restore them.
func (s *Service) Restore(ctx context.Context, caller Caller, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, s.mutationError("restore", err)
	}

	if err := c.Restore(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, s.mutationError("restore", err)
	}
	resp, err := s.enrichOne(ctx, c)
	if err != nil {
		return nil, s.mutationError("restore", err)
	}
	return resp, nil
}

func (s *Service) findVisible(ctx context.Context, caller Caller, id uuid.UUID) (*customer.Customer, error) {
	c, err := s.repo.FindByID(ctx, id, s.policy.IncludeDeleted(caller))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, notFoundByID(id)
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) enrichOne(ctx context.Context, c *customer.Customer) (*CustomerResponse, error) {
	users, err := s.enricher.Resolve(ctx, []*uuid.UUID{c.CreatedBy, c.UpdatedBy, c.DeletedBy()})
	if err != nil {
		return nil, err
	}
	return toResponse(c, users), nil
}

// mutationError maps errors from a mutation. Conflicts and validation
// errors surface as-is; not-found is collapsed into a generic fault in
// legacy mode; everything else becomes a generic fault with the cause
// logged.
func (s *Service) mutationError(action string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Code != shared.CodeNotFound || !s.legacyErrorWrapping {
			return err
		}
	}
	s.log.Error("customer mutation failed",
		zap.String("action", action),
		zap.Error(err))
	return shared.NewDomainError(shared.CodeInternal,
		fmt.Sprintf("Failed to %s customer", action))
}

func notFoundByID(id uuid.UUID) error {
	return shared.NewDomainError(shared.CodeNotFound,
		fmt.Sprintf("Customer with id %s not found", id))
}
