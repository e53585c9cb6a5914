package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramses120/Copper-Salon-sub000/internal/domain"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/types"
)

var (
	june10 = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	june11 = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute, "salon"), mr
}

func sample(staffID int64, date time.Time) *domain.DayAvailability {
	return &domain.DayAvailability{
		StaffID:   staffID,
		Date:      date,
		Slots:     []types.TimeString{"09:00", "09:30"},
		Available: []types.TimeString{"09:30"},
		Occupied:  []types.TimeString{"09:00"},
	}
}

func TestCache_SetGet(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, 1, june10)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, sample(1, june10), Stamp{}))
	assert.True(t, mr.Exists("salon:availability:1:2025-06-10"))
	assert.Equal(t, time.Minute, mr.TTL("salon:availability:1:2025-06-10"))

	got, err := cache.Get(ctx, 1, june10)
	require.NoError(t, err)
	assert.Equal(t, sample(1, june10), got)
}

func TestCache_Expires(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sample(1, june10), Stamp{}))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, 1, june10)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Invalidate(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, sample(1, june10), Stamp{}))
	require.NoError(t, cache.Set(ctx, sample(1, june11), Stamp{}))
	require.NoError(t, cache.Set(ctx, sample(2, june10), Stamp{}))

	require.NoError(t, cache.Invalidate(ctx, 1, june10))
	_, err := cache.Get(ctx, 1, june10)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, 1, june11)
	assert.NoError(t, err)

	require.NoError(t, cache.InvalidateStaff(ctx, 1))
	_, err = cache.Get(ctx, 1, june11)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, 2, june10)
	assert.NoError(t, err)

	require.NoError(t, cache.InvalidateAll(ctx))
	_, err = cache.Get(ctx, 2, june10)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_StampChangesOnInvalidate(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	initial, err := cache.Stamp(ctx, 1, june10)
	require.NoError(t, err)
	assert.Equal(t, Stamp{}, initial)

	require.NoError(t, cache.Invalidate(ctx, 1, june10))
	require.NoError(t, cache.InvalidateStaff(ctx, 1))
	require.NoError(t, cache.InvalidateAll(ctx))

	stamp, err := cache.Stamp(ctx, 1, june10)
	require.NoError(t, err)
	assert.Equal(t, Stamp{Day: 1, Staff: 1, All: 1}, stamp)

	// поколения другого дня и мастера не затронуты, кроме общего
	other, err := cache.Stamp(ctx, 2, june11)
	require.NoError(t, err)
	assert.Equal(t, Stamp{All: 1}, other)
}

func TestCache_SetSkipsStaleWrite(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(ctx context.Context, c *Cache) error
	}{
		{name: "day", invalidate: func(ctx context.Context, c *Cache) error { return c.Invalidate(ctx, 1, june10) }},
		{name: "staff", invalidate: func(ctx context.Context, c *Cache) error { return c.InvalidateStaff(ctx, 1) }},
		{name: "all", invalidate: func(ctx context.Context, c *Cache) error { return c.InvalidateAll(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, mr := newCache(t)
			ctx := context.Background()

			// читатель взял поколение, затем запись в БД инвалидировала кэш
			stamp, err := cache.Stamp(ctx, 1, june10)
			require.NoError(t, err)
			require.NoError(t, tt.invalidate(ctx, cache))

			err = cache.Set(ctx, sample(1, june10), stamp)
			assert.ErrorIs(t, err, ErrStale)
			assert.False(t, mr.Exists("salon:availability:1:2025-06-10"))

			// свежий читатель записывает
			fresh, err := cache.Stamp(ctx, 1, june10)
			require.NoError(t, err)
			require.NoError(t, cache.Set(ctx, sample(1, june10), fresh))
			assert.True(t, mr.Exists("salon:availability:1:2025-06-10"))
		})
	}
}

func TestCache_InvalidateKeepsGenerations(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Invalidate(ctx, 1, june10))
	require.NoError(t, cache.InvalidateAll(ctx))

	assert.True(t, mr.Exists("salon:availability-gen:1:2025-06-10"))
	assert.True(t, mr.Exists("salon:availability-gen"))
	assert.Equal(t, generationTTL, mr.TTL("salon:availability-gen:1:2025-06-10"))
}

func TestCache_CorruptedEntry(t *testing.T) {
	cache, mr := newCache(t)
	require.NoError(t, mr.Set("salon:availability:1:2025-06-10", "{not json"))

	_, err := cache.Get(context.Background(), 1, june10)
	assert.ErrorIs(t, err, ErrCache)
}

func TestCache_RedisDown(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), 1, june10)
	assert.ErrorIs(t, err, ErrCache)
}

func TestNoop(t *testing.T) {
	var c Noop
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sample(1, june10), Stamp{}))
	_, err := c.Get(ctx, 1, june10)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.InvalidateAll(ctx))
}
