package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/iracelog-telemetry-analyzer/pkg/utils/cache"
)

type countingLoader struct {
	calls map[string]int
}

func (l *countingLoader) load(ctx context.Context, key string) (*int, error) {
	l.calls[key]++
	if key == "broken" {
		return nil, errors.New("cannot load")
	}
	v := len(key)
	return &v, nil
}

func TestGetLoadsOnce(t *testing.T) {
	l := &countingLoader{calls: map[string]int{}}
	c := New(WithLoader[string, int](l.load))
	ctx := context.Background()

	for range 3 {
		v, err := c.Get(ctx, "abc")
		assert.NilError(t, err)
		assert.Equal(t, *v, 3)
	}
	assert.Equal(t, l.calls["abc"], 1)
	assert.Equal(t, c.Len(), 1)
}

func TestGetExpired(t *testing.T) {
	l := &countingLoader{calls: map[string]int{}}
	now := time.Date(2024, 4, 28, 11, 10, 12, 0, time.UTC)
	c := New(
		WithLoader[string, int](l.load),
		WithExpiration[string, int](time.Minute),
		WithClock[string, int](func() time.Time { return now }),
	)
	ctx := context.Background()
	_, _ = c.Get(ctx, "abc")
	now = now.Add(2 * time.Minute)
	_, _ = c.Get(ctx, "abc")
	assert.Equal(t, l.calls["abc"], 2)
}

func TestGetError(t *testing.T) {
	l := &countingLoader{calls: map[string]int{}}
	c := New(WithLoader[string, int](l.load))
	_, err := c.Get(context.Background(), "broken")
	assert.ErrorContains(t, err, "cannot load")
	assert.Equal(t, c.Len(), 0)
}

func TestNoLoader(t *testing.T) {
	c := New[string, int]()
	_, err := c.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestMaxItemsAndInvalidate(t *testing.T) {
	l := &countingLoader{calls: map[string]int{}}
	now := time.Date(2024, 4, 28, 11, 10, 12, 0, time.UTC)
	c := New(
		WithLoader[string, int](l.load),
		WithMaxItems[string, int](2),
		WithClock[string, int](func() time.Time { return now }),
	)
	ctx := context.Background()
	for _, k := range []string{"a", "bb", "ccc"} {
		_, _ = c.Get(ctx, k)
		now = now.Add(time.Second)
	}
	assert.Equal(t, c.Len(), 2)
	// "a" was evicted and needs to be loaded again
	_, _ = c.Get(ctx, "a")
	assert.Equal(t, l.calls["a"], 2)

	c.Invalidate(ctx, "a")
	assert.Equal(t, c.Len(), 1)
	c.InvalidateAll(ctx)
	assert.Equal(t, c.Len(), 0)
}
