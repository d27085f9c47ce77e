package customer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/erp/customer-service/internal/domain/shared"
	"github.com/google/uuid"
)

// Deletion records a soft-delete transition: when it happened and who
// caused it. A nil Deletion means the customer is active, so the
// "deletedBy is set iff deletedAt is set" pairing holds by construction.
type Deletion struct {
	At time.Time
	By *uuid.UUID
}

// Customer represents a business customer. It is the aggregate root for
// customer operations. Code is a numeric business identifier assigned by
// the store on first save and usable as an alternate lookup key.
//
// CreatedBy/UpdatedBy and Deletion.By reference users owned by the user
// directory service. They are never validated against a live user at
// write time; dangling references resolve to null at read time.
type Customer struct {
	shared.BaseEntity
	Code      int64
	Name      string
	Email     string
	CreatedBy *uuid.UUID
	UpdatedBy *uuid.UUID
	Deletion  *Deletion
}

// Summary is the minimal projection of a customer used by summary reads.
type Summary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// NewCustomer creates a new active customer with required fields
func NewCustomer(name, email string, createdBy uuid.UUID) (*Customer, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      strings.ToLower(email),
		CreatedBy:  &createdBy,
	}, nil
}

// IsDeleted returns true if the customer is soft-deleted
func (c *Customer) IsDeleted() bool {
	return c.Deletion != nil
}

// DeletedAt returns the soft-delete timestamp, or nil for active customers
func (c *Customer) DeletedAt() *time.Time {
	if c.Deletion == nil {
		return nil
	}
	at := c.Deletion.At
	return &at
}

// DeletedBy returns the id of the user who soft-deleted the customer,
// or nil for active customers
func (c *Customer) DeletedBy() *uuid.UUID {
	if c.Deletion == nil {
		return nil
	}
	return c.Deletion.By
}

// Update updates the customer's descriptive fields and records the actor
func (c *Customer) Update(name, email string, updatedBy uuid.UUID) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	c.Name = name
	c.Email = strings.ToLower(email)
	c.UpdatedBy = &updatedBy
	c.UpdatedAt = time.Now()

	return nil
}

// Delete soft-deletes the customer, recording the actor.
// Deleting an already-deleted customer is a conflict.
func (c *Customer) Delete(deletedBy uuid.UUID) error {
	if c.Deletion != nil {
		return shared.NewDomainError(shared.CodeAlreadyDeleted,
			fmt.Sprintf("Customer with id %s is already deleted", c.ID))
	}

	c.Deletion = &Deletion{At: time.Now(), By: &deletedBy}
	c.UpdatedAt = time.Now()

	return nil
}

// Restore reactivates a soft-deleted customer, clearing the deletion
// state as a pair. Restoring an active customer is a conflict.
func (c *Customer) Restore() error {
	if c.Deletion == nil {
		return shared.NewDomainError(shared.CodeAlreadyActive,
			fmt.Sprintf("Customer with id %s is already active", c.ID))
	}

	c.Deletion = nil
	c.UpdatedAt = time.Now()

	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Customer email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
