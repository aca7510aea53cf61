package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "booking_search/internal/adapters/redis"
	"booking_search/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SearchPageRoundTrip(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	stars := 4
	next := "cursor-token"
	page := domain.SearchPage{
		Results: []domain.SearchResult{
			domain.EstablishmentHit(domain.EstablishmentResult{ID: 1, Name: "Hôtel Paris Centre", City: "Paris", Stars: &stars}),
			domain.RoomHit(domain.RoomResult{ID: 7, Name: "Chambre Double", Price: 120, Capacity: 2, EstablishmentID: 2, EstablishmentName: "Villa Azur"}),
		},
		NextCursor: &next,
	}
	require.NoError(t, c.Set(ctx, "search:v1:k", page, 30*time.Second))

	var got domain.SearchPage
	ok, err := c.Get(ctx, "search:v1:k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, page, got)

	assert.Equal(t, 30*time.Second, mr.TTL("search:v1:k"))
}

func TestCache_MissAndExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var dst domain.SearchPage
	ok, err := c.Get(ctx, "absent", &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "short", domain.SearchPage{}, time.Second))
	mr.FastForward(2 * time.Second)
	ok, err = c.Get(ctx, "short", &dst)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_SubSecondTTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "brief", domain.SearchPage{}, 500*time.Millisecond))
	assert.Equal(t, 500*time.Millisecond, mr.TTL("brief"))

	mr.FastForward(time.Second)
	assert.False(t, mr.Exists("brief"))
}

func TestCache_ZeroTTLNotStored(t *testing.T) {
	c, mr := newCache(t)

	require.NoError(t, c.Set(context.Background(), "forever", domain.SearchPage{}, 0))
	assert.False(t, mr.Exists("forever"))
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var dst domain.SearchPage
	ok, err := c.Get(context.Background(), "bad", &dst)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("bad"))
}

func TestCache_Unreachable(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var dst domain.SearchPage
	_, err := c.Get(context.Background(), "k", &dst)
	assert.Error(t, err)
}

func TestCache_Purge(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	for _, k := range []string{"search:v1:a", "search:v1:b", "other:c"} {
		require.NoError(t, c.Set(ctx, k, domain.SearchPage{}, time.Minute))
	}

	n, err := c.Purge(ctx, "search:v1:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"other:c"}, mr.Keys())
}
