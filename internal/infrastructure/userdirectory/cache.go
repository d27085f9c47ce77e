package userdirectory

import (
	"context"
	"sync"
	"time"

	"github.com/erp/customer-service/internal/domain/directory"
	"github.com/google/uuid"
)

// SummaryCache stores resolved user summaries keyed by user id.
// GetMany returns whatever subset it has; missing ids are fetched from
// the directory by the caller.
type SummaryCache interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]directory.UserSummary, error)
	SetMany(ctx context.Context, summaries []directory.UserSummary) error
}

// InMemorySummaryCache is a process-local SummaryCache with TTL expiry
type InMemorySummaryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	summary   directory.UserSummary
	expiresAt time.Time
}

// NewInMemorySummaryCache creates an in-memory cache with the given TTL
func NewInMemorySummaryCache(ttl time.Duration) *InMemorySummaryCache {
	return &InMemorySummaryCache{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
	}
}

// GetMany returns the cached, unexpired summaries among the given ids
func (c *InMemorySummaryCache) GetMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]directory.UserSummary, error) {
	now := time.Now()
	found := make(map[uuid.UUID]directory.UserSummary)

	c.mu.RLock()
	for _, id := range ids {
		if entry, ok := c.entries[id]; ok && now.Before(entry.expiresAt) {
			found[id] = entry.summary
		}
	}
	c.mu.RUnlock()

	return found, nil
}

// SetMany stores the given summaries with the cache TTL
func (c *InMemorySummaryCache) SetMany(_ context.Context, summaries []directory.UserSummary) error {
	expiresAt := time.Now().Add(c.ttl)

	c.mu.Lock()
	for _, s := range summaries {
		c.entries[s.ID] = memoryEntry{summary: s, expiresAt: expiresAt}
	}
	c.mu.Unlock()

	return nil
}
