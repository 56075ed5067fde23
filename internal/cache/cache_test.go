package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(ttl time.Duration) (*TTL[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	c := New[string](ttl)
	c.nowFunc = clock.Now
	return c, clock
}

func TestTTL_Miss(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	v, ok := c.Get("zip:43209")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestTTL_FreshnessWindow(t *testing.T) {
	c, clock := newTestCache(24 * time.Hour)
	c.Set("zip:43209", "payload")

	clock.Advance(23*time.Hour + 59*time.Minute)
	v, ok := c.Get("zip:43209")
	assert.True(t, ok)
	assert.Equal(t, "payload", v)

	clock.Advance(2 * time.Minute)
	_, ok = c.Get("zip:43209")
	assert.False(t, ok)
}

func TestTTL_ExactlyAtTTLIsStale(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	c.Set("k", "v")
	clock.Advance(time.Hour)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTL_OverwriteRefreshesTimestamp(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	c.Set("k", "old")
	clock.Advance(50 * time.Minute)
	c.Set("k", "new")
	clock.Advance(50 * time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestTTL_StaleEntriesAreKept(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clock.Advance(time.Hour)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestNew_DefaultTTL(t *testing.T) {
	c := New[int](0)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set(ZipKey("43209"), n)
			_, _ = c.Get(ZipKey("43209"))
		}(i)
	}
	wg.Wait()

	_, ok := c.Get(ZipKey("43209"))
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestZipKey(t *testing.T) {
	assert.Equal(t, "zip:43209", ZipKey("43209"))
}
