// Package directory defines the read-side contract against the user
// directory service that owns user records. Customer audit fields hold
// raw user ids; this package is how those ids become display summaries.
package directory

import (
	"context"

	"github.com/google/uuid"
)

// UserSummary is the minimal user projection used to enrich audit fields.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Resolver resolves user ids to summaries in a single batch call.
// Unknown ids are omitted from the result rather than reported as errors.
type Resolver interface {
	FindSummaries(ctx context.Context, ids []uuid.UUID) ([]UserSummary, error)
}
