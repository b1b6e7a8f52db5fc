package sitecache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

func TestCacheDisabledCollapsesConcurrentLoads(t *testing.T) {
	c := New[int]("test_disabled", 0, 10)
	defer c.Close()

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), "k", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []int{7, 7, 7, 7, 7}, results)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(5))

	// nothing stored when disabled
	_, err := c.Get(context.Background(), "k", func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 8, nil
	})
	require.NoError(t, err)
	_, ok := c.lookup("k")
	assert.False(t, ok)
}

func TestCacheTTL(t *testing.T) {
	c := New[string]("test_ttl", time.Minute, 10)
	defer c.Close()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	var calls int
	load := func(context.Context) (string, error) { calls++; return "v", nil }

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), "k", load)
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 1, calls)

	clock = clock.Add(2 * time.Minute)
	_, _ = c.Get(context.Background(), "k", load)
	assert.Equal(t, 2, calls)
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	c := New[*site.Site]("test_err", time.Minute, 10)
	defer c.Close()

	var calls int
	load := func(context.Context) (*site.Site, error) { calls++; return nil, site.ErrNoSite }

	_, err := c.Get(context.Background(), "k", load)
	assert.True(t, errors.Is(err, site.ErrNoSite))
	_, err = c.Get(context.Background(), "k", load)
	assert.True(t, errors.Is(err, site.ErrNoSite))
	assert.Equal(t, 2, calls)
}

func TestEvictExpiredAndLRU(t *testing.T) {
	c := New[int]("test_evict", time.Minute, 2)
	defer c.Close()
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	for i, k := range []string{"a", "b", "c"} {
		clock = clock.Add(time.Second)
		v := i
		_, _ = c.Get(ctx, k, func(context.Context) (int, error) { return v, nil })
	}
	// touch a so b is least recently used
	clock = clock.Add(time.Second)
	_, ok := c.lookup("a")
	require.True(t, ok)

	assert.Equal(t, 1, c.evict())
	_, ok = c.lookup("b")
	assert.False(t, ok)

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 2, c.evict())
}

type countingBackend struct {
	slugCalls int32
}

func (b *countingBackend) SiteBySlug(_ context.Context, kind site.Kind, slug string) (*site.Site, error) {
	atomic.AddInt32(&b.slugCalls, 1)
	return &site.Site{ID: 1, Kind: kind, Slug: slug}, nil
}
func (b *countingBackend) SitesByDomain(context.Context, string) ([]site.Site, error) {
	return nil, nil
}
func (b *countingBackend) Sections(context.Context, uint64) ([]site.Section, error) {
	return []site.Section{{ID: 1}}, nil
}
func (b *countingBackend) Business(_ context.Context, s *site.Site) (*site.Business, error) {
	return &site.Business{Organization: &site.Organization{ID: s.OrganizationID}}, nil
}

func TestStoreKeysByKindAndSlug(t *testing.T) {
	backend := &countingBackend{}
	s := NewStore(backend, time.Minute, 100)
	defer s.Close()
	ctx := context.Background()

	_, _ = s.SiteBySlug(ctx, site.KindPortfolio, "x")
	_, _ = s.SiteBySlug(ctx, site.KindPortfolio, "x")
	got, err := s.SiteBySlug(ctx, site.KindProperty, "x")
	require.NoError(t, err)

	assert.Equal(t, site.KindProperty, got.Kind)
	assert.Equal(t, int32(2), atomic.LoadInt32(&backend.slugCalls))

	b, err := s.Business(ctx, &site.Site{OrganizationID: 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), b.Organization.ID)
}
