package persistence

import (
	"context"
	"errors"

	"github.com/erp/customer-service/internal/domain/customer"
	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/erp/customer-service/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// visible narrows a query to active rows unless deleted rows are requested
func (r *GormCustomerRepository) visible(q *gorm.DB, includeDeleted bool) *gorm.DB {
	if includeDeleted {
		return q
	}
	return q.Where("deleted_at IS NULL")
}

// Create inserts a new customer. The store assigns the numeric code,
// which is copied back onto the entity.
func (r *GormCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	c.Code = model.Code
	return nil
}

// Update persists the full state of an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	var model models.CustomerModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*customer.Customer, error) {
	var model models.CustomerModel
	q := r.visible(r.db.WithContext(ctx), includeDeleted)
	if err := q.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a customer by its numeric code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, code int64, includeDeleted bool) (*customer.Customer, error) {
	var model models.CustomerModel
	q := r.visible(r.db.WithContext(ctx), includeDeleted)
	if err := q.First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPage returns one page of customers ordered newest first
func (r *GormCustomerRepository) FindPage(ctx context.Context, query shared.PageQuery) ([]*customer.Customer, error) {
	var customerModels []models.CustomerModel
	q := r.visible(r.db.WithContext(ctx).Model(&models.CustomerModel{}), query.IncludeDeleted)
	if err := q.Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]*customer.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = customerModels[i].ToDomain()
	}
	return customers, nil
}

// Count returns the number of customers visible at the given scope
func (r *GormCustomerRepository) Count(ctx context.Context, includeDeleted bool) (int64, error) {
	var count int64
	q := r.visible(r.db.WithContext(ctx).Model(&models.CustomerModel{}), includeDeleted)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindSummaryByID returns the summary projection of one customer
func (r *GormCustomerRepository) FindSummaryByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*customer.Summary, error) {
	var summary customer.Summary
	q := r.visible(r.db.WithContext(ctx).Model(&models.CustomerModel{}), includeDeleted)
	if err := q.Select("id", "name", "email").
		Where("id = ?", id).
		Take(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// FindSummaryPage returns one page of summary projections, newest first
func (r *GormCustomerRepository) FindSummaryPage(ctx context.Context, query shared.PageQuery) ([]*customer.Summary, error) {
	var rows []customer.Summary
	q := r.visible(r.db.WithContext(ctx).Model(&models.CustomerModel{}), query.IncludeDeleted)
	if err := q.Select("id", "name", "email").
		Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]*customer.Summary, len(rows))
	for i := range rows {
		summaries[i] = &rows[i]
	}
	return summaries, nil
}

// FindSummariesByIDs resolves a set of ids to summaries of active
// customers. Deleted and unknown ids are omitted.
func (r *GormCustomerRepository) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*customer.Summary, error) {
	if len(ids) == 0 {
		return []*customer.Summary{}, nil
	}

	var rows []customer.Summary
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Select("id", "name", "email").
		Where("id IN ? AND deleted_at IS NULL", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]*customer.Summary, len(rows))
	for i := range rows {
		summaries[i] = &rows[i]
	}
	return summaries, nil
}
