package models

import (
	"time"

	"github.com/erp/customer-service/internal/domain/customer"
	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer domain entity.
// Soft deletion is stored as a nullable column pair; both columns are
// set on delete and cleared on restore.
type CustomerModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code      int64      `gorm:"autoIncrement;uniqueIndex"`
	Name      string     `gorm:"type:varchar(200);not null"`
	Email     string     `gorm:"type:varchar(200);not null;index"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	DeletedAt *time.Time `gorm:"index"`
	DeletedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *customer.Customer {
	c := &customer.Customer{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Code:      m.Code,
		Name:      m.Name,
		Email:     m.Email,
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
	}
	if m.DeletedAt != nil {
		c.Deletion = &customer.Deletion{At: *m.DeletedAt, By: m.DeletedBy}
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.ID = c.ID
	m.Code = c.Code
	m.Name = c.Name
	m.Email = c.Email
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.CreatedBy = c.CreatedBy
	m.UpdatedBy = c.UpdatedBy
	m.DeletedAt = c.DeletedAt()
	m.DeletedBy = c.DeletedBy()
}
