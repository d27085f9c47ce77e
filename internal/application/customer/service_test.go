package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/customer-service/internal/domain/customer"
	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*customer.Customer, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) FindByCode(ctx context.Context, code int64, includeDeleted bool) (*customer.Customer, error) {
	args := m.Called(ctx, code, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) FindPage(ctx context.Context, query shared.PageQuery) ([]*customer.Customer, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Customer), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, includeDeleted bool) (int64, error) {
	args := m.Called(ctx, includeDeleted)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) FindSummaryByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*customer.Summary, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Summary), args.Error(1)
}

func (m *MockRepository) FindSummaryPage(ctx context.Context, query shared.PageQuery) ([]*customer.Summary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Summary), args.Error(1)
}

func (m *MockRepository) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*customer.Summary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customer.Summary), args.Error(1)
}

func newTestService(repo *MockRepository, resolver *MockResolver, opts ...Option) *Service {
	log := zap.NewNop()
	return NewService(repo, NewAccessPolicy(nil), NewEnricher(resolver, log), log, opts...)
}

func existingCustomer(t *testing.T, createdBy uuid.UUID) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer("Acme Corp", "billing@acme.example", createdBy)
	require.NoError(t, err)
	c.Code = 42
	return c
}

func assertDomainCode(t *testing.T, err error, code string) *shared.DomainError {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
	return domainErr
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	caller := Caller{ID: uuid.New(), Roles: []string{"sales"}}

	t.Run("returns the new record without a directory call", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		repo.On("Create", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil).Once()
		// A directory outage must not affect creation.
		resolver.On("FindSummaries", mock.Anything, mock.Anything).Return(nil, errors.New("directory unavailable"))

		resp, err := service.Create(ctx, caller, CreateCustomerRequest{Name: "Acme Corp", Email: "Billing@Acme.Example"})
		require.NoError(t, err)

		assert.Equal(t, "Acme Corp", resp.Name)
		assert.Equal(t, "billing@acme.example", resp.Email)
		assert.Nil(t, resp.CreatedBy)
		assert.Nil(t, resp.UpdatedBy)
		assert.Nil(t, resp.DeletedAt)
		repo.AssertExpectations(t)
		resolver.AssertNotCalled(t, "FindSummaries")
	})

	t.Run("validation error surfaces", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		_, err := service.Create(ctx, caller, CreateCustomerRequest{Name: "", Email: "a@acme.example"})
		assertDomainCode(t, err, "INVALID_NAME")
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("store failure becomes generic fault", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		repo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

		_, err := service.Create(ctx, caller, CreateCustomerRequest{Name: "Acme Corp", Email: "a@acme.example"})
		domainErr := assertDomainCode(t, err, shared.CodeInternal)
		assert.Equal(t, "Failed to create customer", domainErr.Message)
	})
}

func TestServiceFindAll(t *testing.T) {
	ctx := context.Background()

	t.Run("pages newest first with enriched audit users", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		creator := uuid.New()
		a := existingCustomer(t, creator)
		b := existingCustomer(t, creator)

		query := shared.PageQuery{Page: 3, Limit: 10}
		repo.On("FindPage", mock.Anything, shared.PageQuery{Page: 3, Limit: 10}).Return([]*customer.Customer{b, a}, nil).Once()
		repo.On("Count", mock.Anything, false).Return(int64(25), nil).Once()
		resolver.On("FindSummaries", ctx, []uuid.UUID{creator}).Return([]directory.UserSummary{
			{ID: creator, Name: "Sam Sales", Email: "sam@corp.example"},
		}, nil).Once()

		page, err := service.FindAll(ctx, Caller{ID: uuid.New(), Roles: []string{"sales"}}, query)
		require.NoError(t, err)

		assert.Equal(t, int64(25), page.Meta.Total)
		assert.Equal(t, 3, page.Meta.Page)
		assert.Equal(t, 3, page.Meta.LastPage)
		require.Len(t, page.Data, 2)
		require.NotNil(t, page.Data[0].CreatedBy)
		assert.Equal(t, "Sam Sales", page.Data[0].CreatedBy.Name)
		resolver.AssertExpectations(t)
	})

	t.Run("admin sees deleted rows", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		repo.On("FindPage", mock.Anything, shared.PageQuery{Page: 1, Limit: 20, IncludeDeleted: true}).
			Return([]*customer.Customer{}, nil).Once()
		repo.On("Count", mock.Anything, true).Return(int64(0), nil).Once()

		page, err := service.FindAll(ctx, Caller{ID: uuid.New(), Roles: []string{RoleAdmin}}, shared.PageQuery{})
		require.NoError(t, err)

		assert.Empty(t, page.Data)
		assert.Equal(t, 0, page.Meta.LastPage)
		resolver.AssertNotCalled(t, "FindSummaries")
		repo.AssertExpectations(t)
	})
}

func TestServiceFindAllSummary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	resolver := new(MockResolver)
	service := newTestService(repo, resolver)

	id := uuid.New()
	repo.On("FindSummaryPage", mock.Anything, shared.PageQuery{Page: 1, Limit: 20}).
		Return([]*customer.Summary{{ID: id, Name: "Acme Corp", Email: "billing@acme.example"}}, nil).Once()
	repo.On("Count", mock.Anything, false).Return(int64(1), nil).Once()

	page, err := service.FindAllSummary(ctx, Caller{ID: uuid.New()}, shared.PageQuery{})
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	assert.Equal(t, id, page.Data[0].ID)
	resolver.AssertNotCalled(t, "FindSummaries")
}

func TestServiceFindOne(t *testing.T) {
	ctx := context.Background()
	caller := Caller{ID: uuid.New(), Roles: []string{"sales"}}

	t.Run("missing customer is not found", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		id := uuid.New()
		repo.On("FindByID", ctx, id, false).Return(nil, shared.ErrNotFound).Once()

		_, err := service.FindOne(ctx, caller, id)
		domainErr := assertDomainCode(t, err, shared.CodeNotFound)
		assert.Contains(t, domainErr.Message, id.String())
	})

	t.Run("dangling audit reference resolves to null", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		gone := uuid.New()
		c := existingCustomer(t, gone)
		repo.On("FindByID", ctx, c.ID, false).Return(c, nil).Once()
		resolver.On("FindSummaries", ctx, []uuid.UUID{gone}).Return([]directory.UserSummary{}, nil).Once()

		resp, err := service.FindOne(ctx, caller, c.ID)
		require.NoError(t, err)
		assert.Nil(t, resp.CreatedBy)
	})

	t.Run("directory failure propagates", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, false).Return(c, nil).Once()
		resolver.On("FindSummaries", ctx, mock.Anything).Return(nil, errors.New("directory unavailable")).Once()

		_, err := service.FindOne(ctx, caller, c.ID)
		assert.Error(t, err)
	})
}

func TestServiceFindOneByCode(t *testing.T) {
	ctx := context.Background()
	caller := Caller{ID: uuid.New(), Roles: []string{"sales"}}
	repo := new(MockRepository)
	service := newTestService(repo, new(MockResolver))

	repo.On("FindByCode", ctx, int64(404), false).Return(nil, shared.ErrNotFound).Once()

	_, err := service.FindOneByCode(ctx, caller, 404)
	domainErr := assertDomainCode(t, err, shared.CodeNotFound)
	assert.Equal(t, "Customer with code 404 not found", domainErr.Message)
}

func TestServiceFindManySummary(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input skips the store", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		data, err := service.FindManySummary(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, data)
		repo.AssertNotCalled(t, "FindSummariesByIDs")
	})

	t.Run("unknown ids are omitted", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		known := uuid.New()
		gone := uuid.New()
		repo.On("FindSummariesByIDs", ctx, []uuid.UUID{known, gone}).
			Return([]*customer.Summary{{ID: known, Name: "Acme Corp", Email: "billing@acme.example"}}, nil).Once()

		data, err := service.FindManySummary(ctx, []uuid.UUID{known, gone})
		require.NoError(t, err)
		require.Len(t, data, 1)
		assert.Equal(t, known, data[0].ID)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	caller := Caller{ID: uuid.New(), Roles: []string{"sales"}}

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, false).Return(c, nil).Once()
		repo.On("Update", ctx, c).Return(nil).Once()
		resolver.On("FindSummaries", ctx, mock.Anything).Return([]directory.UserSummary{}, nil).Once()

		name := "Acme Inc"
		resp, err := service.Update(ctx, caller, c.ID, UpdateCustomerRequest{Name: &name})
		require.NoError(t, err)

		assert.Equal(t, "Acme Inc", resp.Name)
		assert.Equal(t, "billing@acme.example", resp.Email)
		repo.AssertExpectations(t)
	})

	t.Run("missing customer collapses to generic fault", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		id := uuid.New()
		repo.On("FindByID", ctx, id, false).Return(nil, shared.ErrNotFound).Once()

		name := "Acme Inc"
		_, err := service.Update(ctx, caller, id, UpdateCustomerRequest{Name: &name})
		domainErr := assertDomainCode(t, err, shared.CodeInternal)
		assert.Equal(t, "Failed to update customer", domainErr.Message)
	})

	t.Run("preserved error kinds keep not found", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver), WithPreservedErrorKinds())

		id := uuid.New()
		repo.On("FindByID", ctx, id, false).Return(nil, shared.ErrNotFound).Once()

		name := "Acme Inc"
		_, err := service.Update(ctx, caller, id, UpdateCustomerRequest{Name: &name})
		assertDomainCode(t, err, shared.CodeNotFound)
	})

	t.Run("directory failure after write becomes generic fault", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, false).Return(c, nil).Once()
		repo.On("Update", ctx, c).Return(nil).Once()
		resolver.On("FindSummaries", ctx, mock.Anything).Return(nil, errors.New("directory unavailable")).Once()

		name := "Acme Inc"
		_, err := service.Update(ctx, caller, c.ID, UpdateCustomerRequest{Name: &name})
		domainErr := assertDomainCode(t, err, shared.CodeInternal)
		assert.Equal(t, "Failed to update customer", domainErr.Message)
	})

	t.Run("invalid email surfaces", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, false).Return(c, nil).Once()

		email := "not-an-email"
		_, err := service.Update(ctx, caller, c.ID, UpdateCustomerRequest{Email: &email})
		assertDomainCode(t, err, "INVALID_EMAIL")
		repo.AssertNotCalled(t, "Update")
	})
}

func TestServiceRemove(t *testing.T) {
	ctx := context.Background()
	caller := Caller{ID: uuid.New(), Roles: []string{RoleAdmin}}

	t.Run("soft deletes and records actor", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, true).Return(c, nil).Once()
		repo.On("Update", ctx, c).Return(nil).Once()
		resolver.On("FindSummaries", ctx, mock.Anything).Return([]directory.UserSummary{}, nil).Once()

		resp, err := service.Remove(ctx, caller, c.ID)
		require.NoError(t, err)

		require.NotNil(t, resp.DeletedAt)
		assert.True(t, c.IsDeleted())
		require.NotNil(t, c.DeletedBy())
		assert.Equal(t, caller.ID, *c.DeletedBy())
	})

	t.Run("deleting a deleted customer is a conflict even in legacy mode", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		c := existingCustomer(t, uuid.New())
		require.NoError(t, c.Delete(uuid.New()))
		repo.On("FindByID", ctx, c.ID, true).Return(c, nil).Once()

		_, err := service.Remove(ctx, caller, c.ID)
		assertDomainCode(t, err, shared.CodeAlreadyDeleted)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("missing customer collapses to generic fault", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		id := uuid.New()
		repo.On("FindByID", ctx, id, true).Return(nil, shared.ErrNotFound).Once()

		_, err := service.Remove(ctx, caller, id)
		domainErr := assertDomainCode(t, err, shared.CodeInternal)
		assert.Equal(t, "Failed to delete customer", domainErr.Message)
	})

	t.Run("directory failure after write becomes generic fault", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, true).Return(c, nil).Once()
		repo.On("Update", ctx, c).Return(nil).Once()
		resolver.On("FindSummaries", ctx, mock.Anything).Return(nil, errors.New("directory unavailable")).Once()

		_, err := service.Remove(ctx, caller, c.ID)
		domainErr := assertDomainCode(t, err, shared.CodeInternal)
		assert.Equal(t, "Failed to delete customer", domainErr.Message)
	})
}

func TestServiceRestore(t *testing.T) {
	ctx := context.Background()
	caller := Caller{ID: uuid.New(), Roles: []string{RoleAdmin}}

	t.Run("restores a deleted customer", func(t *testing.T) {
		repo := new(MockRepository)
		resolver := new(MockResolver)
		service := newTestService(repo, resolver)

		c := existingCustomer(t, uuid.New())
		require.NoError(t, c.Delete(uuid.New()))
		repo.On("FindByID", ctx, c.ID, true).Return(c, nil).Once()
		repo.On("Update", ctx, c).Return(nil).Once()
		resolver.On("FindSummaries", ctx, mock.Anything).Return([]directory.UserSummary{}, nil).Once()

		resp, err := service.Restore(ctx, caller, c.ID)
		require.NoError(t, err)

		assert.Nil(t, resp.DeletedAt)
		assert.Nil(t, resp.DeletedBy)
		assert.False(t, c.IsDeleted())
	})

	t.Run("non-privileged caller cannot reach hidden rows", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		c := existingCustomer(t, uuid.New())
		require.NoError(t, c.Delete(uuid.New()))
		// The lookup carries the caller's visibility, so the deleted row
		// is invisible to a non-privileged caller.
		repo.On("FindByID", ctx, c.ID, false).Return(nil, shared.ErrNotFound).Once()

		_, err := service.Restore(ctx, Caller{ID: uuid.New(), Roles: []string{"sales"}}, c.ID)
		domainErr := assertDomainCode(t, err, shared.CodeInternal)
		assert.Equal(t, "Failed to restore customer", domainErr.Message)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("restoring an active customer is a conflict", func(t *testing.T) {
		repo := new(MockRepository)
		service := newTestService(repo, new(MockResolver))

		c := existingCustomer(t, uuid.New())
		repo.On("FindByID", ctx, c.ID, true).Return(c, nil).Once()

		_, err := service.Restore(ctx, caller, c.ID)
		assertDomainCode(t, err, shared.CodeAlreadyActive)
		repo.AssertNotCalled(t, "Update")
	})
}
