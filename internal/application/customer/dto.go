package customer

import (
	"time"

	"github.com/erp/customer-service/internal/domain/customer"
	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/google/uuid"
)

// CreateCustomerRequest carries the data needed to create a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateCustomerRequest carries a partial update. Nil fields keep their
// current value.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// CustomerResponse is the full customer view. Audit references are
// resolved against the user directory; references the directory cannot
// resolve come back null.
type CustomerResponse struct {
	ID        uuid.UUID              `json:"id"`
	Code      int64                  `json:"code"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	DeletedAt *time.Time             `json:"deletedAt"`
	CreatedBy *directory.UserSummary `json:"createdBy"`
	UpdatedBy *directory.UserSummary `json:"updatedBy"`
	DeletedBy *directory.UserSummary `json:"deletedBy"`
}

// SummaryResponse is the lightweight customer view for pickers and
// cross-service joins.
type SummaryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func toResponse(c *customer.Customer, users map[uuid.UUID]directory.UserSummary) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: c.DeletedAt(),
		CreatedBy: lookupUser(users, c.CreatedBy),
		UpdatedBy: lookupUser(users, c.UpdatedBy),
		DeletedBy: lookupUser(users, c.DeletedBy()),
	}
}

func toSummaryResponse(s *customer.Summary) *SummaryResponse {
	return &SummaryResponse{ID: s.ID, Name: s.Name, Email: s.Email}
}

func lookupUser(users map[uuid.UUID]directory.UserSummary, ref *uuid.UUID) *directory.UserSummary {
	if ref == nil {
		return nil
	}
	if s, ok := users[*ref]; ok {
		return &s
	}
	return nil
}
