package customer

import "github.com/google/uuid"

// RoleAdmin is the built-in role that can see soft-deleted customers.
const RoleAdmin = "admin"

// Caller identifies the authenticated principal performing an operation.
type Caller struct {
	ID    uuid.UUID
	Roles []string
}

// AccessPolicy decides which callers may see soft-deleted customers.
// Visibility is role-based: any caller holding a privileged role sees
// deleted rows on full reads; everyone else sees active rows only.
type AccessPolicy struct {
	privileged map[string]struct{}
}

// NewAccessPolicy builds a policy from the set of privileged roles.
// An empty set falls back to the built-in admin role.
func NewAccessPolicy(roles []string) *AccessPolicy {
	if len(roles) == 0 {
		roles = []string{RoleAdmin}
	}
	privileged := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		privileged[r] = struct{}{}
	}
	return &AccessPolicy{privileged: privileged}
}

// IncludeDeleted reports whether the caller may see soft-deleted customers.
func (p *AccessPolicy) IncludeDeleted(caller Caller) bool {
	for _, r := range caller.Roles {
		if _, ok := p.privileged[r]; ok {
			return true
		}
	}
	return false
}
