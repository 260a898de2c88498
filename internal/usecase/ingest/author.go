package ingest

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

// AuthorCache remembers the resolved author for the life of the process.
type AuthorCache interface {
	Get() (int64, bool)
	Set(id int64)
}

// MemoryAuthorCache is a concurrency-safe in-process AuthorCache.
type MemoryAuthorCache struct {
	mu  sync.RWMutex
	id  int64
	set bool
}

// NewMemoryAuthorCache returns an empty cache.
func NewMemoryAuthorCache() *MemoryAuthorCache {
	return &MemoryAuthorCache{}
}

func (c *MemoryAuthorCache) Get() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id, c.set
}

func (c *MemoryAuthorCache) Set(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
	c.set = true
}

// AuthorResolver picks the user every ingested article is attributed to:
// the earliest admin, or failing that the earliest user of any role.
// The first successful answer is cached with no expiry.
type AuthorResolver struct {
	users repository.UserRepository
	cache AuthorCache
	group singleflight.Group
}

// NewAuthorResolver creates a resolver. A nil cache gets a MemoryAuthorCache.
func NewAuthorResolver(users repository.UserRepository, cache AuthorCache) *AuthorResolver {
	if cache == nil {
		cache = NewMemoryAuthorCache()
	}
	return &AuthorResolver{users: users, cache: cache}
}

// Resolve returns the author ID, or ErrAuthorNotFound when storage has no users.
// Concurrent callers share one lookup.
func (r *AuthorResolver) Resolve(ctx context.Context) (int64, error) {
	if id, ok := r.cache.Get(); ok {
		return id, nil
	}

	v, err, _ := r.group.Do("author", func() (interface{}, error) {
		if id, ok := r.cache.Get(); ok {
			return id, nil
		}
		id, err := r.lookup(ctx)
		if err != nil {
			return int64(0), err
		}
		r.cache.Set(id)
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (r *AuthorResolver) lookup(ctx context.Context) (int64, error) {
	admin, err := r.users.FindByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("find admin user: %w", err)
	}
	if admin != nil {
		return admin.ID, nil
	}

	anyUser, err := r.users.FindAny(ctx)
	if err != nil {
		return 0, fmt.Errorf("find any user: %w", err)
	}
	if anyUser == nil {
		return 0, ErrAuthorNotFound
	}
	return anyUser.ID, nil
}
