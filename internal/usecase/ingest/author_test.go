package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
)

func TestAuthorResolver_PrefersAdmin(t *testing.T) {
	users := &stubUserRepo{users: []*entity.User{
		{ID: 1, Role: entity.RoleUser},
		{ID: 7, Role: entity.RoleAdmin},
	}}
	r := NewAuthorResolver(users, nil)

	id, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int32(0), atomic.LoadInt32(&users.findAnyCall))
}

func TestAuthorResolver_FallsBackToAnyUser(t *testing.T) {
	users := &stubUserRepo{users: []*entity.User{{ID: 3, Role: entity.RoleUser}}}
	r := NewAuthorResolver(users, nil)

	id, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestAuthorResolver_NoUsers(t *testing.T) {
	cache := NewMemoryAuthorCache()
	r := NewAuthorResolver(&stubUserRepo{}, cache)

	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, cached := cache.Get()
	assert.False(t, cached, "a failed lookup must not be cached")
}

func TestAuthorResolver_StorageError(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewAuthorResolver(&stubUserRepo{err: boom}, nil)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAuthorNotFound)
	assert.Contains(t, err.Error(), "find admin user")
}

func TestAuthorResolver_CachesFirstSuccess(t *testing.T) {
	users := &stubUserRepo{users: []*entity.User{{ID: 5, Role: entity.RoleAdmin}}}
	r := NewAuthorResolver(users, nil)

	for i := 0; i < 3; i++ {
		id, err := r.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&users.findByRole))
}

func TestAuthorResolver_PreSeededCache(t *testing.T) {
	users := &stubUserRepo{}
	cache := NewMemoryAuthorCache()
	cache.Set(42)

	id, err := NewAuthorResolver(users, cache).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int32(0), atomic.LoadInt32(&users.findByRole))
}

func TestAuthorResolver_ConcurrentCallersShareLookup(t *testing.T) {
	users := &stubUserRepo{
		users: []*entity.User{{ID: 9, Role: entity.RoleAdmin}},
		block: make(chan struct{}),
	}
	r := NewAuthorResolver(users, nil)

	const callers = 16
	var wg sync.WaitGroup
	ids := make([]int64, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = r.Resolve(context.Background())
		}(i)
	}
	close(users.block)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(9), ids[i])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&users.findByRole))
}
